package leagues

import (
	"testing"
	"time"
)

func TestGenerateRoundRobinSchedule(t *testing.T) {
	teams := []Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}, {ID: 5, Name: "E"}}
	start := time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC) // Saturday
	end := start.AddDate(0, 2, 0)

	games, err := GenerateRoundRobinSchedule(teams, start, end, []time.Weekday{time.Saturday, time.Sunday}, 2)
	if err != nil {
		t.Fatalf("generate schedule: %v", err)
	}
	if len(games) != 10 {
		t.Fatalf("expected 10 games, got %d", len(games))
	}

	seen := make(map[[2]int64]bool)
	for _, g := range games {
		if g.HomeTeam.ID == g.AwayTeam.ID {
			t.Fatalf("team scheduled against itself: %+v", g)
		}
		a, b := g.HomeTeam.ID, g.AwayTeam.ID
		if a > b {
			a, b = b, a
		}
		if seen[[2]int64{a, b}] {
			t.Fatalf("pairing %d-%d scheduled twice", a, b)
		}
		seen[[2]int64{a, b}] = true
		if wd := g.GameDate.Weekday(); wd != time.Saturday && wd != time.Sunday {
			t.Fatalf("game on %s", wd)
		}
	}
}

func TestGenerateRoundRobinScheduleInsufficientSlots(t *testing.T) {
	teams := []Team{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	day := time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC)
	if _, err := GenerateRoundRobinSchedule(teams, day, day, []time.Weekday{time.Saturday}, 1); err == nil {
		t.Fatalf("expected insufficient slot error")
	}
}

func TestGenerateRoundRobinScheduleOneGamePerTeamPerDate(t *testing.T) {
	tests := []struct {
		name        string
		teams       int
		gamesPerDay int
		wantDates   int
	}{
		{name: "four teams, room for three games", teams: 4, gamesPerDay: 3, wantDates: 3},
		{name: "five teams, room for four games", teams: 5, gamesPerDay: 4, wantDates: 5},
		{name: "six teams, two games per day", teams: 6, gamesPerDay: 2, wantDates: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teams := make([]Team, tt.teams)
			for i := range teams {
				teams[i] = Team{ID: int64(i + 1)}
			}
			start := time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC) // Saturday
			games, err := GenerateRoundRobinSchedule(teams, start, start.AddDate(1, 0, 0), []time.Weekday{time.Saturday}, tt.gamesPerDay)
			if err != nil {
				t.Fatalf("generate schedule: %v", err)
			}
			if want := tt.teams * (tt.teams - 1) / 2; len(games) != want {
				t.Fatalf("expected %d games, got %d", want, len(games))
			}

			booked := make(map[string]map[int64]bool)
			perDate := make(map[string]int)
			for _, g := range games {
				date := g.GameDate.Format("2006-01-02")
				if booked[date] == nil {
					booked[date] = make(map[int64]bool)
				}
				for _, id := range []int64{g.HomeTeam.ID, g.AwayTeam.ID} {
					if booked[date][id] {
						t.Fatalf("team %d plays twice on %s", id, date)
					}
					booked[date][id] = true
				}
				perDate[date]++
				if perDate[date] > tt.gamesPerDay {
					t.Fatalf("%d games on %s, limit %d", perDate[date], date, tt.gamesPerDay)
				}
			}
			if len(perDate) != tt.wantDates {
				t.Fatalf("expected %d play dates, got %d", tt.wantDates, len(perDate))
			}
		})
	}
}
