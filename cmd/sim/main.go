// Command sim plays seeded headless sessions against the run and difficulty
// models and folds the results into a stored player profile.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/config"
	"github.com/haythammda/Gift-Storm/internal/leaderboard"
	"github.com/haythammda/Gift-Storm/internal/player"
	"github.com/haythammda/Gift-Storm/internal/rng"
	"github.com/haythammda/Gift-Storm/internal/telemetry"
)

type options struct {
	mode     string
	level    int
	runs     int
	seed     int64
	dataDir  string
	playerID string
	submitAs string
	balance  config.Balance
}

func main() {
	var opts options
	cfgPath := flag.String("config", "giftstorm.yml", "path to the YAML config")
	flag.StringVar(&opts.mode, "mode", "endless", "endless or campaign")
	flag.IntVar(&opts.level, "level", 0, "campaign level; 0 plays the next unlocked level")
	flag.IntVar(&opts.runs, "runs", 1, "number of sessions to play")
	flag.Int64Var(&opts.seed, "seed", 1, "random seed")
	flag.StringVar(&opts.dataDir, "data-dir", "", "data directory (defaults to the config's)")
	flag.StringVar(&opts.playerID, "player", "sim", "player id whose profile receives the results")
	flag.StringVar(&opts.submitAs, "submit", "", "submit endless scores to the leaderboard under this name")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.ApplyEnv()
	opts.balance = cfg.Balance
	if opts.dataDir == "" {
		opts.dataDir = cfg.Server.DataDir
	}

	report, err := simulate(opts, log.Default())
	if err != nil {
		log.Fatalf("simulate: %v", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalf("encode report: %v", err)
	}
}

// Report is printed as JSON after all sessions finish.
type Report struct {
	Mode     string           `json:"mode"`
	Seed     int64            `json:"seed"`
	Endless  []EndlessResult  `json:"endless,omitempty"`
	Campaign []CampaignResult `json:"campaign,omitempty"`
	Profile  player.Profile   `json:"profile"`
	Stats    telemetry.Stats  `json:"stats"`
}

func simulate(opts options, logger *log.Logger) (Report, error) {
	if opts.runs <= 0 {
		opts.runs = 1
	}
	cat := catalog.Default()
	src := rng.New(opts.seed)
	events := telemetry.NewMemoryRepository(nil, 0)

	repo, err := player.NewFileRepo(filepath.Join(opts.dataDir, "players"))
	if err != nil {
		return Report{}, err
	}
	store, err := player.NewStore(player.Options{
		Repo:      repo.ForUser(opts.playerID),
		Catalog:   cat,
		Rand:      src,
		Logger:    logger,
		Telemetry: events,
	})
	if err != nil {
		return Report{}, err
	}

	var board *leaderboard.Service
	if opts.submitAs != "" {
		lr, err := leaderboard.NewFileRepo(opts.dataDir)
		if err != nil {
			return Report{}, err
		}
		board = leaderboard.NewService(leaderboard.Options{Repo: lr, Logger: logger, Telemetry: events})
	}

	report := Report{Mode: opts.mode, Seed: opts.seed}
	for i := 0; i < opts.runs; i++ {
		mods := store.RunModifiers()
		cfg := runConfig(cat, mods, opts.balance, src)

		switch opts.mode {
		case "endless":
			res := simulateEndless(cat, cfg, mods, opts.balance, src)
			store.FinishRun(player.RunSummary{
				Coins:          res.Coins,
				Seconds:        res.Seconds,
				ChildrenHelped: res.ChildrenHelped,
			})
			if board != nil {
				if _, err := board.Submit(leaderboard.Submission{
					PlayerName:     opts.submitAs,
					Score:          res.Score,
					TimeSurvived:   res.Seconds,
					ChildrenHelped: res.ChildrenHelped,
					CoinsEarned:    res.Coins,
				}); err != nil {
					return Report{}, err
				}
			}
			report.Endless = append(report.Endless, res)

		case "campaign":
			level := opts.level
			if level <= 0 {
				level = store.Snapshot().HighestLevelUnlocked
			}
			if !store.IsLevelUnlocked(level) {
				return Report{}, fmt.Errorf("level %d is locked for %s", level, opts.playerID)
			}
			res, err := simulateCampaign(cat, level, cfg, mods, src)
			if err != nil {
				return Report{}, err
			}
			store.AddCoins(res.Coins)
			if res.Won {
				if _, ok := store.FinishCampaignLevel(player.LevelClear{
					Level:      level,
					Stars:      res.Stars,
					TimeMetric: res.TimeMetric,
				}); !ok {
					return Report{}, fmt.Errorf("level %d clear was rejected", level)
				}
			} else {
				store.RecordLevelAttempt(level)
			}
			report.Campaign = append(report.Campaign, res)

		default:
			return Report{}, fmt.Errorf("unknown mode %q", opts.mode)
		}
	}

	all, err := events.GetEvents(time.Time{}, nil)
	if err != nil {
		return Report{}, err
	}
	if report.Stats, err = telemetry.CalculateStats(all, time.Time{}); err != nil {
		return Report{}, err
	}
	report.Profile = store.Snapshot()
	return report, nil
}
