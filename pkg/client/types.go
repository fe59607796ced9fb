package client

import (
	"time"

	"github.com/replaylab/ballchasing-client/pkg/quota"
)

// Ping is the response of the API root endpoint. It identifies the account
// behind the auth key and its patron tier, which determines the quota.
type Ping struct {
	Ball    string            `json:"ball"`
	Boost   string            `json:"boost"`
	Chaser  bool              `json:"chaser"`
	Chat    map[string]string `json:"chat"`
	Name    string            `json:"name"`
	SteamID string            `json:"steam_id"`
	Type    quota.Tier        `json:"type"`
}

// Uploader identifies the account that uploaded a replay.
type Uploader struct {
	Avatar     string `json:"avatar"`
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
	SteamID    int64  `json:"steam_id"`
}

// Creator identifies the account that created a group.
type Creator struct {
	SteamID      string `json:"steam_id"`
	Name         string `json:"name"`
	ProfileURL   string `json:"profile_url"`
	Avatar       string `json:"avatar"`
	AvatarFull   string `json:"avatar_full,omitempty"`
	AvatarMedium string `json:"avatar_medium,omitempty"`
}

// PlayerRank is a player's competitive rank at replay time.
type PlayerRank struct {
	ID       Rank   `json:"id"`
	Name     string `json:"name"`
	Tier     int    `json:"tier"`
	Division int    `json:"division,omitempty"`
}

// Platform is a player's platform identity.
type Platform struct {
	ID       string `json:"id,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// CameraSettings are a player's camera settings.
type CameraSettings struct {
	Distance        int     `json:"distance"`
	FOV             int     `json:"fov"`
	Height          int     `json:"height"`
	Pitch           int     `json:"pitch"`
	Stiffness       float64 `json:"stiffness"`
	SwivelSpeed     float64 `json:"swivel_speed"`
	TransitionSpeed float64 `json:"transition_speed"`
}

// CoreStats are the scoreboard statistics.
type CoreStats struct {
	Assists            int     `json:"assists"`
	Goals              int     `json:"goals"`
	GoalsAgainst       int     `json:"goals_against"`
	MVP                bool    `json:"mvp,omitempty"`
	Saves              int     `json:"saves"`
	Score              int     `json:"score"`
	ShootingPercentage float64 `json:"shooting_percentage"`
	Shots              int     `json:"shots"`
	ShotsAgainst       int     `json:"shots_against"`
}

// BoostStats are boost economy statistics.
type BoostStats struct {
	AmountCollected           int     `json:"amount_collected"`
	AmountCollectedBig        int     `json:"amount_collected_big"`
	AmountCollectedSmall      int     `json:"amount_collected_small"`
	AmountOverfill            int     `json:"amount_overfill"`
	AmountOverfillStolen      int     `json:"amount_overfill_stolen"`
	AmountStolen              int     `json:"amount_stolen"`
	AmountStolenBig           int     `json:"amount_stolen_big"`
	AmountStolenSmall         int     `json:"amount_stolen_small"`
	AmountUsedWhileSupersonic int     `json:"amount_used_while_supersonic"`
	AvgAmount                 float64 `json:"avg_amount,omitempty"`
	BCPM                      float64 `json:"bcpm,omitempty"`
	BPM                       int     `json:"bpm,omitempty"`
	CountCollectedBig         int     `json:"count_collected_big"`
	CountCollectedSmall       int     `json:"count_collected_small"`
	CountStolenBig            int     `json:"count_stolen_big"`
	CountStolenSmall          int     `json:"count_stolen_small"`
	PercentZeroBoost          float64 `json:"percent_zero_boost,omitempty"`
	PercentFullBoost          float64 `json:"percent_full_boost,omitempty"`
	TimeZeroBoost             float64 `json:"time_zero_boost"`
	TimeFullBoost             float64 `json:"time_full_boost"`
}

// MovementStats are speed and positioning-in-air statistics.
type MovementStats struct {
	AvgPowerslideDuration float64 `json:"avg_powerslide_duration,omitempty"`
	AvgSpeed              int     `json:"avg_speed,omitempty"`
	AvgSpeedPercentage    float64 `json:"avg_speed_percentage,omitempty"`
	CountPowerslide       int     `json:"count_powerslide"`
	PercentGround         float64 `json:"percent_ground,omitempty"`
	PercentLowAir         float64 `json:"percent_low_air,omitempty"`
	PercentHighAir        float64 `json:"percent_high_air,omitempty"`
	PercentSupersonic     float64 `json:"percent_supersonic_speed,omitempty"`
	TimeGround            float64 `json:"time_ground"`
	TimeLowAir            float64 `json:"time_low_air"`
	TimeHighAir           float64 `json:"time_high_air"`
	TimePowerslide        float64 `json:"time_powerslide"`
	TimeSupersonic        float64 `json:"time_supersonic_speed"`
	TotalDistance         int     `json:"total_distance,omitempty"`
}

// PositioningStats are field position statistics.
type PositioningStats struct {
	AvgDistanceToBall       int     `json:"avg_distance_to_ball,omitempty"`
	AvgDistanceToMates      int     `json:"avg_distance_to_mates,omitempty"`
	PercentBehindBall       float64 `json:"percent_behind_ball,omitempty"`
	PercentInfrontBall      float64 `json:"percent_infront_ball,omitempty"`
	PercentDefensiveHalf    float64 `json:"percent_defensive_half,omitempty"`
	PercentOffensiveHalf    float64 `json:"percent_offensive_half,omitempty"`
	PercentDefensiveThird   float64 `json:"percent_defensive_third,omitempty"`
	PercentNeutralThird     float64 `json:"percent_neutral_third,omitempty"`
	PercentOffensiveThird   float64 `json:"percent_offensive_third,omitempty"`
	TimeBehindBall          float64 `json:"time_behind_ball"`
	TimeInfrontBall         float64 `json:"time_infront_ball"`
	TimeDefensiveHalf       float64 `json:"time_defensive_half"`
	TimeOffensiveHalf       float64 `json:"time_offensive_half"`
	TimeDefensiveThird      float64 `json:"time_defensive_third"`
	TimeNeutralThird        float64 `json:"time_neutral_third"`
	TimeOffensiveThird      float64 `json:"time_offensive_third"`
	PercentClosestToBall    float64 `json:"percent_closest_to_ball,omitempty"`
	PercentFarthestFromBall float64 `json:"percent_farthest_from_ball,omitempty"`
}

// DemoStats are demolition statistics.
type DemoStats struct {
	Inflicted int `json:"inflicted"`
	Taken     int `json:"taken"`
}

// BallStats are team-level ball statistics.
type BallStats struct {
	PossessionTime float64 `json:"possession_time"`
	TimeInSide     float64 `json:"time_in_side"`
}

// Stats bundles the statistic groups for a player or team.
type Stats struct {
	Ball        *BallStats        `json:"ball,omitempty"`
	Core        *CoreStats        `json:"core,omitempty"`
	Boost       *BoostStats       `json:"boost,omitempty"`
	Movement    *MovementStats    `json:"movement,omitempty"`
	Positioning *PositioningStats `json:"positioning,omitempty"`
	Demo        *DemoStats        `json:"demo,omitempty"`
}

// Player is one participant in a replay.
type Player struct {
	ID                  Platform        `json:"id"`
	Camera              *CameraSettings `json:"camera,omitempty"`
	CarID               int             `json:"car_id,omitempty"`
	CarName             string          `json:"car_name,omitempty"`
	StartTime           float64         `json:"start_time"`
	EndTime             float64         `json:"end_time"`
	MVP                 bool            `json:"mvp,omitempty"`
	Pro                 bool            `json:"pro,omitempty"`
	Rank                *PlayerRank     `json:"rank,omitempty"`
	Stats               *Stats          `json:"stats,omitempty"`
	SteeringSensitivity float64         `json:"steering_sensitivity,omitempty"`
}

// Team is one side of a replay.
type Team struct {
	Color   string   `json:"color,omitempty"`
	Name    string   `json:"name,omitempty"`
	Players []Player `json:"players,omitempty"`
	Stats   *Stats   `json:"stats,omitempty"`
}

// Replay is a replay's metadata and, on detail fetches, its full stats.
type Replay struct {
	ID             string       `json:"id"`
	Link           string       `json:"link"`
	Title          string       `json:"title,omitempty"`
	ReplayTitle    string       `json:"replay_title,omitempty"`
	Status         ReplayStatus `json:"status,omitempty"`
	RocketLeagueID string       `json:"rocket_league_id,omitempty"`
	MatchGUID      string       `json:"match_guid,omitempty"`
	MatchType      string       `json:"match_type,omitempty"`
	MapCode        string       `json:"map_code,omitempty"`
	MapName        string       `json:"map_name,omitempty"`
	PlaylistID     Playlist     `json:"playlist_id,omitempty"`
	PlaylistName   string       `json:"playlist_name,omitempty"`
	TeamSize       int          `json:"team_size,omitempty"`
	Duration       int          `json:"duration"`
	Overtime       bool         `json:"overtime"`
	Season         int          `json:"season,omitempty"`
	SeasonType     string       `json:"season_type,omitempty"`
	Date           time.Time    `json:"date"`
	Created        time.Time    `json:"created"`
	Visibility     Visibility   `json:"visibility,omitempty"`
	MinRank        *PlayerRank  `json:"min_rank,omitempty"`
	MaxRank        *PlayerRank  `json:"max_rank,omitempty"`
	Uploader       Uploader     `json:"uploader"`
	Blue           Team         `json:"blue"`
	Orange         Team         `json:"orange"`
}

// ReplaySearch is one page of a replay listing.
type ReplaySearch struct {
	Count int      `json:"count,omitempty"`
	List  []Replay `json:"list"`
	Next  string   `json:"next,omitempty"`
}

// Cumulative are stats accumulated over all of a group player's games.
type Cumulative struct {
	Games         int               `json:"games"`
	Wins          int               `json:"wins"`
	WinPercentage float64           `json:"win_percentage"`
	PlayDuration  int               `json:"play_duration"`
	Core          *CoreStats        `json:"core,omitempty"`
	Boost         *BoostStats       `json:"boost,omitempty"`
	Movement      *MovementStats    `json:"movement,omitempty"`
	Positioning   *PositioningStats `json:"positioning,omitempty"`
	Demo          *DemoStats        `json:"demo,omitempty"`
}

// GameAverage are per-game average stats for a group player.
type GameAverage struct {
	Core        *CoreStats        `json:"core,omitempty"`
	Boost       *BoostStats       `json:"boost,omitempty"`
	Movement    *MovementStats    `json:"movement,omitempty"`
	Positioning *PositioningStats `json:"positioning,omitempty"`
	Demo        *DemoStats        `json:"demo,omitempty"`
}

// GroupPlayer aggregates one player's performance across a group.
type GroupPlayer struct {
	Platform    string       `json:"platform"`
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Team        string       `json:"team,omitempty"`
	Cumulative  *Cumulative  `json:"cumulative,omitempty"`
	GameAverage *GameAverage `json:"game_average,omitempty"`
}

// GroupTeamPlayer identifies a member of a group team.
type GroupTeamPlayer struct {
	Platform string `json:"platform"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Team     string `json:"team,omitempty"`
}

// GroupTeam aggregates one team's performance across a group.
type GroupTeam struct {
	Name        string            `json:"name"`
	Players     []GroupTeamPlayer `json:"players,omitempty"`
	Cumulative  *Cumulative       `json:"cumulative,omitempty"`
	GameAverage *GameAverage      `json:"game_average,omitempty"`
}

// ReplayGroup is a replay group's metadata and aggregated stats.
type ReplayGroup struct {
	ID                   string               `json:"id"`
	Link                 string               `json:"link"`
	Name                 string               `json:"name"`
	Created              time.Time            `json:"created"`
	Status               string               `json:"status,omitempty"`
	PlayerIdentification PlayerIdentification `json:"player_identification"`
	TeamIdentification   TeamIdentification   `json:"team_identification"`
	DirectReplays        int                  `json:"direct_replays"`
	IndirectReplays      int                  `json:"indirect_replays"`
	Shared               bool                 `json:"shared"`
	Creator              *Creator             `json:"creator,omitempty"`
	User                 *Uploader            `json:"user,omitempty"`
	Players              []GroupPlayer        `json:"players,omitempty"`
	Teams                []GroupTeam          `json:"teams,omitempty"`
}

// GroupSearch is one page of a group listing.
type GroupSearch struct {
	Count int           `json:"count,omitempty"`
	List  []ReplayGroup `json:"list"`
	Next  string        `json:"next,omitempty"`
}

// GroupCreated is the response to a group creation.
type GroupCreated struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}

// UploadResult is the response to a replay upload. On duplicate uploads the
// ID points at the already-existing replay.
type UploadResult struct {
	ID       string `json:"id"`
	Location string `json:"location"`
}
