package ops

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/haythammda/Gift-Storm/internal/catalog"
)

// WriteLevelTable prints the generated campaign table, one level per row.
func WriteLevelTable(w io.Writer, levels []catalog.GameLevel) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMAP\tDIFF\tHP\tSPEED\tSPAWN\tMINI 1\tMINI 2\tFINAL\tCOINS")
	for _, l := range levels {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t%s\t%s\t%d\n",
			l.ID, l.Name, l.MapID, l.Difficulty,
			l.EnemyHealthMultiplier, l.EnemySpeedMultiplier, l.SpawnRateMultiplier,
			l.MiniBoss1, l.MiniBoss2, l.FinalBoss, l.Rewards.Coins)
	}
	return tw.Flush()
}
