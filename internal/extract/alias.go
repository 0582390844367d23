package extract

// Alias tables per document kind. These consolidate every tag spelling
// observed across provider schema variants (CamelCase, SCREAMING_SNAKE, and
// attribute-carried values); matching is case-insensitive so each entry
// covers both capitalizations of the same spelling.

var chartSpec = DocSpec{
	Kind: KindChart,

	// Charts carry authoritative card metadata in the document body;
	// filename-derived values are only defaults.
	PreferDocMeta: true,

	TrackElems: []string{"Code", "TrackCode", "Track_Code", "TrackID"},
	DateElems:  []string{"RaceDate", "Race_Date", "ChartDate", "CardDate"},

	Race: EntityDef{
		Name:  "race",
		Elems: []string{"Race"},
		Fields: []FieldDef{
			{Column: "race_number", Kind: fieldInt,
				Elems: []string{"RaceNumber", "Race_Number", "Number", "Num"},
				Attrs: []string{"Number", "Num"}},
			{Column: "surface", Kind: fieldSurface,
				Elems: []string{"Surface", "SurfaceDescription", "Course"},
				Attrs: []string{"Surface"}},
			{Column: "distance_yards", Kind: fieldDistance,
				YardElems: []string{"DistanceYards", "Distance_Yards", "DistanceYd"},
				Elems:     []string{"Distance", "DistanceValue", "DistanceDescription"},
				UnitElems: []string{"DistanceUnit", "Distance_Unit", "DistanceUnitCode"}},
			{Column: "track_condition", Kind: fieldText,
				Elems: []string{"TrackCondition", "Track_Condition", "Condition"}},
			{Column: "purse", Kind: fieldInt,
				Elems: []string{"Purse", "PurseUSA", "Purse_USA"}},
			{Column: "condition_text", Kind: fieldText,
				Elems: []string{"Conditions", "ConditionText", "Condition_Text", "RaceConditions"}},
			{Column: "winning_time", Kind: fieldText,
				Elems: []string{"WinningTime", "Winning_Time", "FinalTime", "Final_Time"}},
		},
	},

	PerRace: []EntityDef{
		{
			Name:  "entry",
			Elems: []string{"Starter", "Entry"},
			Fields: []FieldDef{
				{Column: "program_number", Kind: fieldProgram, Required: true,
					Elems: []string{"Program", "ProgramNumber", "Program_Number", "PostPosition", "Post_Position", "Number"},
					Attrs: []string{"Program", "Number"}},
				{Column: "horse_name", Kind: fieldText,
					Elems: []string{"HorseName", "Horse_Name", "Name"},
					Attrs: []string{"Name"}},
				{Column: "finish_position", Kind: fieldInt,
					Elems: []string{"FinishPosition", "Finish_Position", "Finish", "OfficialFinish"}},
				{Column: "final_odds", Kind: fieldText,
					Elems: []string{"Odds", "FinalOdds", "Final_Odds"}},
				{Column: "win_payoff", Kind: fieldFloat,
					Elems: []string{"WinPayoff", "Win_Payoff"}},
				{Column: "place_payoff", Kind: fieldFloat,
					Elems: []string{"PlacePayoff", "Place_Payoff"}},
				{Column: "show_payoff", Kind: fieldFloat,
					Elems: []string{"ShowPayoff", "Show_Payoff"}},
			},
		},
		{
			Name:  "payout",
			Elems: []string{"Payout", "WagerPayout", "Wager"},
			Fields: []FieldDef{
				{Column: "wager_type", Kind: fieldText, Required: true,
					Elems: []string{"WagerType", "Wager_Type", "Type"},
					Attrs: []string{"Type"}},
				{Column: "winning_numbers", Kind: fieldText,
					Elems: []string{"WinningNumbers", "Winning_Numbers", "Numbers"}},
				{Column: "pool", Kind: fieldFloat,
					Elems: []string{"Pool", "PoolTotal", "Pool_Total"}},
				{Column: "payout_amount", Kind: fieldFloat,
					Elems: []string{"Payout", "PayoutAmount", "Payout_Amount", "Amount"}},
			},
		},
		{
			Name:  "scratch",
			Elems: []string{"Scratch", "ScratchedHorse"},
			Fields: []FieldDef{
				{Column: "program_number", Kind: fieldProgram,
					Elems: []string{"Program", "ProgramNumber", "Program_Number"},
					Attrs: []string{"Program"}},
				{Column: "horse_name", Kind: fieldText,
					Elems: []string{"HorseName", "Horse_Name", "Name"}},
				{Column: "reason", Kind: fieldText,
					Elems: []string{"Reason", "ScratchReason", "Scratch_Reason"}},
			},
		},
	},
}

var ppSpec = DocSpec{
	Kind: KindPP,

	// SIMD filenames encode the card being distributed; the body is often
	// sparse or stale, so filename-derived values win.
	PreferDocMeta: false,

	TrackElems: []string{"Code", "TrackCode", "Track_Code", "TrackID"},
	DateElems:  []string{"RaceDate", "Race_Date", "CardDate"},

	Race: EntityDef{
		Name:  "race",
		Elems: []string{"Race"},
		Fields: []FieldDef{
			{Column: "race_number", Kind: fieldInt,
				Elems: []string{"Number", "Num", "RaceNumber", "Race_Number"},
				Attrs: []string{"Number", "Num"}},
			{Column: "surface", Kind: fieldSurface,
				Elems: []string{"Surface", "CourseType"},
				Attrs: []string{"Surface"}},
			{Column: "distance_yards", Kind: fieldDistance,
				YardElems: []string{"DistanceYards", "Distance_Yards", "DistanceYd"},
				Elems:     []string{"Distance", "DistanceValue"},
				UnitElems: []string{"DistanceUnit", "Distance_Unit", "DistanceUnitCode"}},
			{Column: "track_condition", Kind: fieldText,
				Elems: []string{"TrackCondition", "Track_Condition", "Condition"}},
			{Column: "age_restriction", Kind: fieldText,
				Elems: []string{"AgeRestriction", "Age_Restriction"}},
			{Column: "sex_restriction", Kind: fieldText,
				Elems: []string{"SexRestriction", "Sex_Restriction"}},
			{Column: "purse", Kind: fieldInt,
				Elems: []string{"Purse"}},
			{Column: "wager_text", Kind: fieldText,
				Elems: []string{"WagerText", "Wager_Text"}},
			{Column: "program_selections", Kind: fieldText,
				Elems: []string{"ProgramSelections", "Program_Selections"}},
		},
	},

	PerRace: []EntityDef{
		{
			Name:  "entry",
			Elems: []string{"Starter", "Entry"},
			Fields: []FieldDef{
				{Column: "program_number", Kind: fieldProgram, Required: true,
					Elems: []string{"Program", "ProgramNumber", "Program_Number"},
					Attrs: []string{"Program"}},
				{Column: "horse_name", Kind: fieldText,
					Elems: []string{"HorseName", "Horse_Name", "Name"}},
				{Column: "sire", Kind: fieldText, Elems: []string{"Sire"}},
				{Column: "dam", Kind: fieldText, Elems: []string{"Dam"}},
				{Column: "trainer_name", Kind: fieldText,
					Elems: []string{"TrainerName", "Trainer_Name", "Trainer"}},
				{Column: "jockey_name", Kind: fieldText,
					Elems: []string{"JockeyName", "Jockey_Name", "Jockey"}},
				{Column: "med_lasix", Kind: fieldFlag, Flag: "LASIX",
					Elems: []string{"Medication", "Meds"}},
				{Column: "equip_blinkers", Kind: fieldFlag, Flag: "BLINK",
					Elems: []string{"Equipment", "Equip"}},
				{Column: "ml_odds", Kind: fieldText,
					Elems: []string{"MorningLine", "Morning_Line", "MorningLineOdds"}},
				{Column: "speed_fig_last", Kind: fieldInt,
					Elems: []string{"SpeedFigure", "Speed_Figure"}},
				{Column: "pace_fig1", Kind: fieldInt,
					Elems: []string{"PaceFigure1", "Pace_Figure1"}},
				{Column: "pace_fig2", Kind: fieldInt,
					Elems: []string{"PaceFigure2", "Pace_Figure2"}},
				{Column: "pace_fig3", Kind: fieldInt,
					Elems: []string{"PaceFigure3", "Pace_Figure3"}},
				{Column: "class_rating", Kind: fieldInt,
					Elems: []string{"ClassRating", "Class_Rating"}},
				{Column: "last_comment", Kind: fieldText,
					Elems: []string{"ShortComment", "Short_Comment", "LongComment", "Long_Comment", "Comment"}},
			},
		},
	},

	TopLevel: []EntityDef{
		{
			Name:  "workout",
			Elems: []string{"Workout", "Work"},
			Fields: []FieldDef{
				{Column: "horse_name", Kind: fieldText, Required: true,
					Elems: []string{"HorseName", "Horse_Name", "Name"}},
				{Column: "work_date", Kind: fieldText, Required: true,
					Elems: []string{"Date", "WorkDate", "Work_Date"}},
				{Column: "track_code", Kind: fieldText,
					Elems: []string{"Track", "TrackCode", "Track_Code"}},
				{Column: "distance_yards", Kind: fieldDistance, Required: true,
					YardElems:    []string{"DistanceYards", "Distance_Yards"},
					FurlongElems: []string{"DistanceFurlongs", "Dist_Furlongs", "Distance_Furlongs"},
					Elems:        []string{"Distance"},
					UnitElems:    []string{"DistanceUnit", "Distance_Unit"}},
				{Column: "surface", Kind: fieldSurface,
					Elems: []string{"Surface"}},
				{Column: "course_type", Kind: fieldText,
					Elems: []string{"CourseType", "Course_Type"}},
				{Column: "rank_in_set", Kind: fieldInt,
					Elems: []string{"Rank", "RankInSet", "Rank_In_Set"}},
				{Column: "set_size", Kind: fieldInt,
					Elems: []string{"SetSize", "Set_Size"}},
				{Column: "time_raw", Kind: fieldText,
					Elems: []string{"Time", "WorkTime", "Work_Time"}},
				{Column: "bullet_flag", Kind: fieldTruthy,
					Elems: []string{"Bullet", "BulletWork", "Bullet_Work"}},
			},
		},
	},
}
