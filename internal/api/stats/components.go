package stats

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/dugout/internal/db"
	"github.com/codr1/dugout/internal/leagues"
	appstats "github.com/codr1/dugout/internal/stats"
)

func htmlComponent(build func() string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, build())
		return err
	})
}

func tableComponent(table appstats.Table) templ.Component {
	return htmlComponent(func() string {
		return buildStatTableHTML(table, nil, "")
	})
}

func careerComponent(table appstats.Table, career appstats.Line) templ.Component {
	return htmlComponent(func() string {
		return buildStatTableHTML(table, &career, careerLabel)
	})
}

func contextComponent(line appstats.Line, columns []string) templ.Component {
	return htmlComponent(func() string {
		var builder strings.Builder
		builder.WriteString(`<dl class="grid grid-cols-7 gap-2 text-sm" id="stat-context">`)
		for _, col := range columns {
			fmt.Fprintf(&builder, `<div><dt class="text-gray-500">%s</dt><dd class="font-mono">%s</dd></div>`,
				html.EscapeString(col), html.EscapeString(line.Display(col)))
		}
		builder.WriteString(`</dl>`)
		return builder.String()
	})
}

func leadersComponent(category leagues.Category, leaders []leagues.Leader) templ.Component {
	return htmlComponent(func() string {
		if len(leaders) == 0 {
			return `<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No qualified players.</div>`
		}

		var builder strings.Builder
		fmt.Fprintf(&builder, `<table class="min-w-full text-sm" data-category="%s"><thead><tr>`, html.EscapeString(category.Name))
		builder.WriteString(`<th>#</th><th>Player</th><th>Team</th>`)
		fmt.Fprintf(&builder, `<th class="text-right">%s</th></tr></thead><tbody>`, html.EscapeString(category.Stat))
		for _, leader := range leaders {
			fmt.Fprintf(&builder, `<tr><td>%d</td><td>%s</td><td>%s</td><td class="text-right font-mono">%s</td></tr>`,
				leader.Rank,
				html.EscapeString(leader.PlayerName),
				html.EscapeString(leader.TeamName),
				html.EscapeString(leader.Display))
		}
		builder.WriteString(`</tbody></table>`)
		return builder.String()
	})
}

func standingsComponent(standings []leagues.TeamStanding) templ.Component {
	return htmlComponent(func() string {
		if len(standings) == 0 {
			return `<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No teams in this season.</div>`
		}

		var builder strings.Builder
		builder.WriteString(`<table class="min-w-full text-sm" id="standings"><thead><tr>`)
		builder.WriteString(`<th>Team</th><th>W</th><th>L</th><th>T</th><th>PCT</th><th>GB</th><th>RF</th><th>RA</th><th>DIFF</th>`)
		builder.WriteString(`</tr></thead><tbody>`)
		for _, s := range standings {
			fmt.Fprintf(&builder, `<tr><td>%s</td><td>%d</td><td>%d</td><td>%d</td><td class="font-mono">%s</td><td>%s</td><td>%d</td><td>%d</td><td>%s</td></tr>`,
				html.EscapeString(s.TeamName),
				s.Wins, s.Losses, s.Ties,
				html.EscapeString(s.Display.Pct),
				html.EscapeString(s.Display.GamesBehind),
				s.RunsFor, s.RunsAgainst,
				html.EscapeString(s.Display.RunDifferential))
		}
		builder.WriteString(`</tbody></table>`)
		return builder.String()
	})
}

func playerSearchComponent(players []db.Player) templ.Component {
	return htmlComponent(func() string {
		if len(players) == 0 {
			return `<ul class="divide-y" id="player-results"><li class="p-2 text-sm text-gray-500">No players found.</li></ul>`
		}

		var builder strings.Builder
		builder.WriteString(`<ul class="divide-y" id="player-results">`)
		for _, p := range players {
			fmt.Fprintf(&builder, `<li class="p-2" data-player-id="%d">%s</li>`, p.ID, html.EscapeString(p.FullName()))
		}
		builder.WriteString(`</ul>`)
		return builder.String()
	})
}

func definitionsComponent(defs []definitionSummary) templ.Component {
	return htmlComponent(func() string {
		var builder strings.Builder
		builder.WriteString(`<ul class="divide-y" id="stat-definitions">`)
		for _, d := range defs {
			fmt.Fprintf(&builder, `<li class="p-2"><span class="font-semibold">%s</span> <span class="text-gray-500">%s</span></li>`,
				html.EscapeString(d.Name),
				html.EscapeString(strings.Join(d.Columns, " ")))
		}
		builder.WriteString(`</ul>`)
		return builder.String()
	})
}

// buildStatTableHTML renders one row per line, keyed by the group key, with
// an optional footer row such as a career total.
func buildStatTableHTML(table appstats.Table, footer *appstats.Line, footerKey string) string {
	if len(table.Lines) == 0 {
		return `<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No stats recorded.</div>`
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, `<table class="min-w-full text-sm" data-definition="%s"><thead><tr>`, html.EscapeString(table.Definition))
	if table.GroupKey != "" {
		fmt.Fprintf(&builder, `<th>%s</th>`, html.EscapeString(table.GroupKey))
	}
	for _, col := range table.Columns {
		fmt.Fprintf(&builder, `<th>%s</th>`, html.EscapeString(col))
	}
	builder.WriteString(`</tr></thead><tbody>`)

	writeRow := func(key string, line appstats.Line) {
		builder.WriteString(`<tr>`)
		if table.GroupKey != "" {
			fmt.Fprintf(&builder, `<td>%s</td>`, html.EscapeString(key))
		}
		for _, col := range table.Columns {
			fmt.Fprintf(&builder, `<td class="font-mono">%s</td>`, html.EscapeString(line.Display(col)))
		}
		builder.WriteString(`</tr>`)
	}
	for _, line := range table.Lines {
		key := ""
		if line.Key != nil {
			key = fmt.Sprint(line.Key)
		}
		writeRow(key, line)
	}
	builder.WriteString(`</tbody>`)
	if footer != nil {
		builder.WriteString(`<tfoot>`)
		writeRow(footer.Display(footerKey), *footer)
		builder.WriteString(`</tfoot>`)
	}
	builder.WriteString(`</table>`)
	return builder.String()
}
