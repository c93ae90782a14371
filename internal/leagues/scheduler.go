package leagues

import (
	"errors"
	"fmt"
	"time"
)

type ScheduledGame struct {
	Round    int       `json:"round"`
	HomeTeam Team      `json:"homeTeam"`
	AwayTeam Team      `json:"awayTeam"`
	GameDate time.Time `json:"gameDate"`
	Slot     int       `json:"slot"`
}

// GenerateRoundRobinSchedule pairs every team with every other team once.
// Each round starts on a fresh play day between startDate and endDate and
// fills up to gamesPerDay slots, spilling onto the following play days, so no
// team plays twice on one date.
func GenerateRoundRobinSchedule(teams []Team, startDate, endDate time.Time, gameDays []time.Weekday, gamesPerDay int) ([]ScheduledGame, error) {
	if len(teams) < 2 {
		return nil, errors.New("at least two teams are required")
	}
	if len(gameDays) == 0 {
		return nil, errors.New("at least one game day is required")
	}
	if gamesPerDay <= 0 {
		return nil, errors.New("games per day must be positive")
	}
	startDate = truncateDate(startDate)
	endDate = truncateDate(endDate)
	if endDate.Before(startDate) {
		return nil, errors.New("start date must be on or before end date")
	}

	pairs := buildRoundRobinPairs(teams)
	dates := buildPlayDates(startDate, endDate, gameDays)

	schedule := make([]ScheduledGame, 0, len(pairs))
	day, slot, round := -1, 0, 0
	for _, pairing := range pairs {
		if pairing.Round != round || slot == gamesPerDay {
			round = pairing.Round
			day++
			slot = 0
		}
		if day >= len(dates) {
			return nil, fmt.Errorf("insufficient slots: %d games need more than the %d available play days", len(pairs), len(dates))
		}
		slot++
		schedule = append(schedule, ScheduledGame{
			Round:    pairing.Round,
			HomeTeam: pairing.HomeTeam,
			AwayTeam: pairing.AwayTeam,
			GameDate: dates[day],
			Slot:     slot,
		})
	}
	return schedule, nil
}

type roundPair struct {
	Round    int
	HomeTeam Team
	AwayTeam Team
}

func buildRoundRobinPairs(teams []Team) []roundPair {
	working := make([]*Team, 0, len(teams)+1)
	for i := range teams {
		working = append(working, &teams[i])
	}
	// odd team counts get a bye
	if len(working)%2 == 1 {
		working = append(working, nil)
	}

	rounds := len(working) - 1
	pairs := make([]roundPair, 0, rounds*len(working)/2)

	for round := 0; round < rounds; round++ {
		for i := 0; i < len(working)/2; i++ {
			left := working[i]
			right := working[len(working)-1-i]
			if left == nil || right == nil {
				continue
			}
			home := *left
			away := *right
			if i == 0 && round%2 == 1 {
				home, away = away, home
			}
			pairs = append(pairs, roundPair{
				Round:    round + 1,
				HomeTeam: home,
				AwayTeam: away,
			})
		}
		rotateTeams(working)
	}

	return pairs
}

func rotateTeams(teams []*Team) {
	if len(teams) <= 2 {
		return
	}
	last := teams[len(teams)-1]
	copy(teams[2:], teams[1:len(teams)-1])
	teams[1] = last
}

func buildPlayDates(startDate, endDate time.Time, gameDays []time.Weekday) []time.Time {
	playDay := make(map[time.Weekday]bool, len(gameDays))
	for _, d := range gameDays {
		playDay[d] = true
	}

	var dates []time.Time
	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		if playDay[date.Weekday()] {
			dates = append(dates, date)
		}
	}
	return dates
}

func truncateDate(value time.Time) time.Time {
	loc := value.Location()
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, loc)
}
