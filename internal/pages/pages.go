// Package pages renders the server-side HTML views as templ components.
package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/haythammda/Gift-Storm/internal/donation"
	"github.com/haythammda/Gift-Storm/internal/leaderboard"
)

func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!doctype html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>%s</title><link rel="stylesheet" href="/static/css/giftstorm.css"></head>`+
			`<body><header><a href="/">Gift Storm</a> <a href="/leaderboard">Leaderboard</a> <a href="/donate">Donate</a></header><main>`,
			templ.EscapeString(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main><script src="/static/js/live.js" defer></script></body></html>`)
		return err
	})
}

// LeaderboardPage lists the top scores.
func LeaderboardPage(scores []leaderboard.Score) templ.Component {
	return layout("Gift Storm Leaderboard", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Leaderboard</h1>`); err != nil {
			return err
		}
		if len(scores) == 0 {
			_, err := io.WriteString(w, `<p class="empty">No scores yet. Be the first!</p>`)
			return err
		}
		if _, err := io.WriteString(w, `<table id="scores"><thead><tr><th>#</th><th>Player</th>`+
			`<th>Score</th><th>Time</th><th>Children helped</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for i, s := range scores {
			// Names are stored entity-escaped already.
			if _, err := fmt.Fprintf(w, `<tr><td>%d</td><td>%s</td><td>%d</td><td>%s</td><td>%d</td></tr>`,
				i+1, s.PlayerName, s.Score, formatSeconds(s.TimeSurvived), s.ChildrenHelped); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table>`)
		return err
	}))
}

// DonationPage shows campaign progress and the milestone list.
func DonationPage(st donation.Status) templ.Component {
	return layout("Gift Storm Donations", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		pct := st.Progress() * 100
		if _, err := fmt.Fprintf(w, `<h1>Donations</h1><section id="donation" data-total="%.2f" data-goal="%.2f">`+
			`<p class="total">%.2f JOD raised of %.2f JOD</p>`+
			`<div class="progress"><div class="bar" style="width:%.1f%%"></div></div>`+
			`<a class="donate" href="%s" rel="noopener">Donate</a></section><ul class="milestones">`,
			st.Total, st.Goal, st.Total, st.Goal, pct, templ.EscapeString(st.URL)); err != nil {
			return err
		}
		for _, m := range st.Milestones {
			class := "locked"
			if m.Unlocked {
				class = "unlocked"
			}
			if _, err := fmt.Fprintf(w, `<li class="%s"><strong>%s</strong> <span>%.0f JOD</span><p>%s</p></li>`,
				class, templ.EscapeString(m.Name), m.Threshold, templ.EscapeString(m.Description)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	}))
}

// HomePage links the public views.
func HomePage() templ.Component {
	return layout("Gift Storm", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1>Gift Storm</h1><p>Throw gifts, help children, and raise money for charity.</p>`+
			`<p><a href="/leaderboard">See the leaderboard</a> or <a href="/donate">follow the donation drive</a>.</p>`)
		return err
	}))
}

func formatSeconds(s int) string {
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
