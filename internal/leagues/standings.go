package leagues

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/codr1/dugout/internal/stats"
)

// Team is a standings participant.
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GameResult is one final score. Unplayed games are not results.
type GameResult struct {
	GameID     int64
	GameDate   string
	HomeTeamID int64
	AwayTeamID int64
	HomeScore  int
	AwayScore  int
}

type TeamStanding struct {
	TeamID          int64   `json:"teamId"`
	TeamName        string  `json:"teamName"`
	GamesPlayed     int     `json:"gamesPlayed"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	Ties            int     `json:"ties"`
	RunsFor         int     `json:"runsFor"`
	RunsAgainst     int     `json:"runsAgainst"`
	RunDifferential int     `json:"runDifferential"`
	Pct             float64 `json:"pct"`
	GamesBehind     float64 `json:"gamesBehind"`
	Display         struct {
		Pct             string `json:"pct"`
		RunDifferential string `json:"runDifferential"`
		GamesBehind     string `json:"gamesBehind"`
	} `json:"display"`
}

type teamStats struct {
	TeamStanding
	headToHeadWins    map[int64]int
	headToHeadRunDiff map[int64]int
}

// ResultRecords expands each result into one standings record per team.
func ResultRecords(results []GameResult) ([]stats.Record, error) {
	records := make([]stats.Record, 0, len(results)*2)
	for _, result := range results {
		if result.HomeTeamID == result.AwayTeamID {
			return nil, fmt.Errorf("game %d has the same home and away team", result.GameID)
		}
		if result.HomeScore < 0 || result.AwayScore < 0 {
			return nil, fmt.Errorf("game %d has a negative score", result.GameID)
		}
		records = append(records,
			resultRecord(result, result.HomeTeamID, result.HomeScore, result.AwayScore),
			resultRecord(result, result.AwayTeamID, result.AwayScore, result.HomeScore),
		)
	}
	return records, nil
}

func resultRecord(result GameResult, teamID int64, scored, allowed int) stats.Record {
	rec := stats.Record{
		stats.FieldGameID:   result.GameID,
		stats.FieldTeamID:   teamID,
		stats.FieldGameDate: result.GameDate,
		stats.RunsFor:       scored,
		stats.RunsAgainst:   allowed,
	}
	switch {
	case scored > allowed:
		rec[stats.Win] = 1
	case scored < allowed:
		rec[stats.Loss] = 1
	default:
		rec[stats.Tie] = 1
	}
	return rec
}

// CalculateStandings orders teams by winning percentage, with ties counted as
// half a win. Teams level on percentage are separated by head-to-head wins
// among the tied group, then run differential, then head-to-head run
// differential, then name.
func CalculateStandings(teams []Team, results []GameResult) ([]TeamStanding, error) {
	if len(teams) == 0 {
		return nil, errors.New("at least one team is required")
	}

	records, err := ResultRecords(results)
	if err != nil {
		return nil, err
	}
	def, err := stats.Lookup(stats.TeamStandings)
	if err != nil {
		return nil, err
	}
	table, err := stats.Aggregate(records, def)
	if err != nil {
		return nil, fmt.Errorf("aggregate standings: %w", err)
	}

	byID := make(map[int64]*teamStats, len(teams))
	ordered := make([]*teamStats, 0, len(teams))
	for _, team := range teams {
		entry := &teamStats{
			TeamStanding: TeamStanding{
				TeamID:   team.ID,
				TeamName: team.Name,
			},
			headToHeadWins:    make(map[int64]int),
			headToHeadRunDiff: make(map[int64]int),
		}
		entry.Display.Pct = stats.FormatValue(stats.StyleBatting, 0)
		entry.Display.RunDifferential = stats.FormatValue(stats.StyleSigned, 0)
		byID[team.ID] = entry
		ordered = append(ordered, entry)
	}

	for _, line := range table.Lines {
		id, _ := line.Key.(int64)
		entry, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("result references team %v outside the standings", line.Key)
		}
		entry.Wins = int(line.Value(stats.Win))
		entry.Losses = int(line.Value(stats.Loss))
		entry.Ties = int(line.Value(stats.Tie))
		entry.GamesPlayed = entry.Wins + entry.Losses + entry.Ties
		entry.RunsFor = int(line.Value(stats.RunsFor))
		entry.RunsAgainst = int(line.Value(stats.RunsAgainst))
		entry.RunDifferential = int(line.Value(stats.RunDiff))
		entry.Pct = line.Value(stats.Pct)
		entry.Display.Pct = line.Display(stats.Pct)
		entry.Display.RunDifferential = line.Display(stats.RunDiff)
	}

	for _, result := range results {
		home, away := byID[result.HomeTeamID], byID[result.AwayTeamID]
		diff := result.HomeScore - result.AwayScore
		home.headToHeadRunDiff[away.TeamID] += diff
		away.headToHeadRunDiff[home.TeamID] -= diff
		switch {
		case diff > 0:
			home.headToHeadWins[away.TeamID]++
		case diff < 0:
			away.headToHeadWins[home.TeamID]++
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Pct != ordered[j].Pct {
			return ordered[i].Pct > ordered[j].Pct
		}
		return ordered[i].TeamName < ordered[j].TeamName
	})

	sortStandingsByTiebreakers(ordered)
	setGamesBehind(ordered)

	standings := make([]TeamStanding, 0, len(ordered))
	for _, team := range ordered {
		standings = append(standings, team.TeamStanding)
	}
	return standings, nil
}

func sortStandingsByTiebreakers(ordered []*teamStats) {
	if len(ordered) < 2 {
		return
	}

	start := 0
	for start < len(ordered) {
		end := start + 1
		for end < len(ordered) && ordered[end].Pct == ordered[start].Pct {
			end++
		}

		if end-start > 1 {
			group := ordered[start:end]
			groupSet := make(map[int64]struct{}, len(group))
			for _, team := range group {
				groupSet[team.TeamID] = struct{}{}
			}

			sort.SliceStable(group, func(i, j int) bool {
				winsI := headToHead(group[i].headToHeadWins, groupSet)
				winsJ := headToHead(group[j].headToHeadWins, groupSet)
				if winsI != winsJ {
					return winsI > winsJ
				}
				if group[i].RunDifferential != group[j].RunDifferential {
					return group[i].RunDifferential > group[j].RunDifferential
				}
				diffI := headToHead(group[i].headToHeadRunDiff, groupSet)
				diffJ := headToHead(group[j].headToHeadRunDiff, groupSet)
				if diffI != diffJ {
					return diffI > diffJ
				}
				return group[i].TeamName < group[j].TeamName
			})
		}

		start = end
	}
}

func headToHead(byOpponent map[int64]int, group map[int64]struct{}) int {
	total := 0
	for opponentID, n := range byOpponent {
		if _, ok := group[opponentID]; ok {
			total += n
		}
	}
	return total
}

// setGamesBehind measures every team against the first. Ties count as half a
// win and half a loss.
func setGamesBehind(ordered []*teamStats) {
	if len(ordered) == 0 {
		return
	}
	leader := ordered[0]
	for _, team := range ordered {
		wins := float64(leader.Wins-team.Wins) + float64(leader.Ties-team.Ties)/2
		losses := float64(team.Losses-leader.Losses) + float64(team.Ties-leader.Ties)/2
		team.GamesBehind = (wins + losses) / 2
		if team.GamesBehind == 0 {
			team.Display.GamesBehind = "-"
			continue
		}
		team.Display.GamesBehind = strconv.FormatFloat(team.GamesBehind, 'f', 1, 64)
	}
}
