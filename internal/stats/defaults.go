package stats

// Definition names served by the Default registry.
const (
	PlayerSeasonHitting    = "player_season_hitting"
	PlayerSeasonPitching   = "player_season_pitching"
	TeamSeasonHitting      = "team_season_hitting"
	TeamSeasonPitching     = "team_season_pitching"
	LeagueLeaders          = "league_leaders"
	TeamStandings          = "team_standings"
	PlayerCareerHitting    = "player_career_hitting"
	PlayerCareerPitching   = "player_career_pitching"
	PlayerGameLogHitting   = "player_game_log_hitting"
	BoxscoreRunningHitting = "boxscore_running_hitting"
)

// Record field names shared by the store and the definitions below.
const (
	FieldPlayerID   = "player_id"
	FieldPlayerName = "player_name"
	FieldTeamID     = "team_id"
	FieldTeamName   = "team_name"
	FieldSeasonID   = "season_id"
	FieldSeasonYear = "season_year"
	FieldSeasonName = "season_name"
	FieldGameID     = "game_id"
	FieldGameDate   = "game_date"
)

// Hitting counting stats.
const (
	AB      = "AB"
	PA      = "PA"
	R       = "R"
	H       = "H"
	Double  = "2B"
	Triple  = "3B"
	HR      = "HR"
	RBI     = "RBI"
	RBI2Out = "RBI2OUT"
	BB      = "BB"
	SO      = "SO"
	SB      = "SB"
	CS      = "CS"
	HBP     = "HBP"
	SF      = "SF"
)

// Pitching counting stats. H, R, HR and BB are shared with hitting.
const (
	W   = "W"
	L   = "L"
	G   = "G"
	GS  = "GS"
	CG  = "CG"
	SHO = "SHO"
	SV  = "SV"
	SVO = "SVO"
	ER  = "ER"
	HB  = "HB"
	K   = "K"
	IP  = "IP"
)

// Standings fields.
const (
	RunsFor     = "runs_for"
	RunsAgainst = "runs_against"
	Win         = "win"
	Loss        = "loss"
	Tie         = "tie"
	Pct         = "pct"
	RunDiff     = "diff"
)

// Derived ratio names.
const (
	AVG  = "AVG"
	OBP  = "OBP"
	SLG  = "SLG"
	OPS  = "OPS"
	ERA  = "ERA"
	WHIP = "WHIP"
	K9   = "K9"
	BB9  = "BB9"
)

var hittingSums = []string{AB, PA, R, H, Double, Triple, HR, RBI, BB, SO, SB, CS, HBP, SF}

var pitchingSums = []string{W, L, G, GS, CG, SHO, SV, SVO, H, R, ER, HR, HB, BB, K}

var (
	avgRatio = Ratio{Name: AVG, Numerator: terms(H), Denominator: terms(AB), Style: StyleBatting}
	obpRatio = Ratio{
		Name:        OBP,
		Numerator:   terms(H, BB, HBP),
		Denominator: terms(AB, BB, HBP, SF),
		Style:       StyleBatting,
	}
	slgRatio = Ratio{
		Name:        SLG,
		Numerator:   []Term{term(H), term(Double), weighted(Triple, 2), weighted(HR, 3)},
		Denominator: terms(AB),
		Style:       StyleBatting,
	}
	opsRatio = Ratio{Name: OPS, Numerator: terms(OBP, SLG), Style: StyleBatting}

	eraRatio  = Ratio{Name: ERA, Numerator: terms(ER), Denominator: terms(IP), Scale: 9, Style: StylePitching}
	whipRatio = Ratio{Name: WHIP, Numerator: terms(BB, H), Denominator: terms(IP), Style: StylePitching}
	k9Ratio   = Ratio{Name: K9, Numerator: terms(K), Denominator: terms(IP), Scale: 9, Style: StylePitching}
	bb9Ratio  = Ratio{Name: BB9, Numerator: terms(BB), Denominator: terms(IP), Scale: 9, Style: StylePitching}
)

func pitchingSumFields() []SumField {
	return append(sums(pitchingSums...), SumField{Name: IP, Kind: SumInnings})
}

func hittingRatios() []Ratio {
	return []Ratio{avgRatio, obpRatio, slgRatio, opsRatio}
}

func pitchingRatios() []Ratio {
	return []Ratio{eraRatio, whipRatio, k9Ratio, bb9Ratio}
}

var (
	playerLabel = Projection{Name: FieldPlayerName, Kind: ProjectLabel}
	teamLabel   = Projection{Name: FieldTeamName, Kind: ProjectLabel}
	seasonLabel = Projection{Name: FieldSeasonName, Kind: ProjectLabel}
	gamesPlayed = Projection{Name: G, Source: FieldGameID, Kind: ProjectCount}
)

// DefaultDefinitions returns the built-in definitions.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Name:        PlayerSeasonHitting,
			GroupKey:    FieldPlayerID,
			Projections: []Projection{playerLabel, teamLabel, gamesPlayed},
			Sums:        sums(hittingSums...),
			Ratios:      hittingRatios(),
		},
		{
			Name:        PlayerSeasonPitching,
			GroupKey:    FieldPlayerID,
			Projections: []Projection{playerLabel, teamLabel},
			Sums:        pitchingSumFields(),
			Ratios:      pitchingRatios(),
		},
		{
			Name:        TeamSeasonHitting,
			GroupKey:    FieldTeamID,
			Projections: []Projection{teamLabel, gamesPlayed},
			Sums:        sums(hittingSums...),
			Ratios:      hittingRatios(),
		},
		{
			Name:        TeamSeasonPitching,
			GroupKey:    FieldTeamID,
			Projections: []Projection{teamLabel},
			Sums:        pitchingSumFields(),
			Ratios:      pitchingRatios(),
		},
		{
			Name:        LeagueLeaders,
			GroupKey:    FieldPlayerID,
			Projections: []Projection{playerLabel, teamLabel},
			Sums:        sums(HR, RBI, SB, R, AB, PA, H),
			Ratios:      []Ratio{avgRatio},
		},
		{
			Name:        TeamStandings,
			GroupKey:    FieldTeamID,
			Projections: []Projection{teamLabel},
			Sums:        sums(Win, Loss, Tie, RunsFor, RunsAgainst),
			Ratios: []Ratio{
				{
					Name:        Pct,
					Numerator:   []Term{term(Win), weighted(Tie, 0.5)},
					Denominator: terms(Win, Loss, Tie),
					Style:       StyleBatting,
				},
				{
					Name:      RunDiff,
					Numerator: []Term{term(RunsFor), weighted(RunsAgainst, -1)},
					Style:     StyleSigned,
				},
			},
		},
		{
			Name:        PlayerCareerHitting,
			GroupKey:    FieldSeasonID,
			Projections: []Projection{seasonLabel, teamLabel, gamesPlayed},
			Sums:        sums(hittingSums...),
			Ratios:      hittingRatios(),
		},
		{
			Name:        PlayerCareerPitching,
			GroupKey:    FieldSeasonID,
			Projections: []Projection{seasonLabel, teamLabel},
			Sums:        pitchingSumFields(),
			Ratios:      pitchingRatios(),
		},
		{
			Name:        PlayerGameLogHitting,
			GroupKey:    FieldGameDate,
			Projections: []Projection{teamLabel},
			Sums:        sums(hittingSums...),
			Ratios:      []Ratio{avgRatio, obpRatio},
		},
		{
			Name: BoxscoreRunningHitting,
			Sums: sums(Double, Triple, HR, RBI, RBI2Out, SB, CS),
		},
	}
}

// Default holds DefaultDefinitions. It is read-only after package init.
var Default = MustNewRegistry(DefaultDefinitions()...)
