package client

// Playlist is a Rocket League playlist filter value.
type Playlist string

const (
	PlaylistDuels            Playlist = "ranked-duels"
	PlaylistDoubles          Playlist = "ranked-doubles"
	PlaylistSoloStandard     Playlist = "ranked-solo-standard"
	PlaylistStandard         Playlist = "ranked-standard"
	PlaylistUnrankedDuels    Playlist = "unranked-duels"
	PlaylistUnrankedDoubles  Playlist = "unranked-doubles"
	PlaylistUnrankedStandard Playlist = "unranked-standard"
	PlaylistPrivate          Playlist = "private"
	PlaylistSeason           Playlist = "season"
	PlaylistOffline          Playlist = "offline"
	PlaylistRocketLabs       Playlist = "rocket-labs"
	PlaylistHoops            Playlist = "ranked-hoops"
	PlaylistRumble           Playlist = "ranked-rumble"
	PlaylistDropshot         Playlist = "ranked-dropshot"
	PlaylistSnowday          Playlist = "ranked-snowday"
	PlaylistUnrankedHoops    Playlist = "hoops"
	PlaylistUnrankedRumble   Playlist = "rumble"
	PlaylistUnrankedDropshot Playlist = "dropshot"
	PlaylistUnrankedSnowday  Playlist = "snowday"
	PlaylistTournament       Playlist = "tournament"
	PlaylistDropshotRumble   Playlist = "dropshot-rumble"
	PlaylistHeatseeker       Playlist = "heatseeker"
)

// Rank is a competitive rank filter value.
type Rank string

const (
	RankUnranked   Rank = "unranked"
	RankBronze1    Rank = "bronze-1"
	RankBronze2    Rank = "bronze-2"
	RankBronze3    Rank = "bronze-3"
	RankSilver1    Rank = "silver-1"
	RankSilver2    Rank = "silver-2"
	RankSilver3    Rank = "silver-3"
	RankGold1      Rank = "gold-1"
	RankGold2      Rank = "gold-2"
	RankGold3      Rank = "gold-3"
	RankPlatinum1  Rank = "platinum-1"
	RankPlatinum2  Rank = "platinum-2"
	RankPlatinum3  Rank = "platinum-3"
	RankDiamond1   Rank = "diamond-1"
	RankDiamond2   Rank = "diamond-2"
	RankDiamond3   Rank = "diamond-3"
	RankChampion1  Rank = "champion-1"
	RankChampion2  Rank = "champion-2"
	RankChampion3  Rank = "champion-3"
	RankGC         Rank = "grand-champion"
	RankGC1        Rank = "grand-champion-1"
	RankGC2        Rank = "grand-champion-2"
	RankGC3        Rank = "grand-champion-3"
	RankSupersonic Rank = "supersonic-legend"
)

// MatchResult filters replays by outcome for the queried player.
type MatchResult string

const (
	MatchWin  MatchResult = "win"
	MatchLoss MatchResult = "loss"
)

// ReplaySortBy selects the sort field for replay listings.
type ReplaySortBy string

const (
	SortReplaysByReplayDate ReplaySortBy = "replay-date"
	SortReplaysByUploadDate ReplaySortBy = "upload-date"
)

// GroupSortBy selects the sort field for group listings.
type GroupSortBy string

const (
	SortGroupsByCreated GroupSortBy = "created"
	SortGroupsByName    GroupSortBy = "name"
)

// SortDir is a sort direction.
type SortDir string

const (
	SortAscending  SortDir = "asc"
	SortDescending SortDir = "desc"
)

// Visibility controls who can see an uploaded replay.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
)

// PlayerIdentification selects how a group matches the same player across
// replays. By-name helps with tournaments where players rotate through a
// pool of generic accounts.
type PlayerIdentification string

const (
	IdentifyPlayersByID   PlayerIdentification = "by-id"
	IdentifyPlayersByName PlayerIdentification = "by-name"
)

// TeamIdentification selects how a group matches the same team across
// replays. By-distinct-players requires a fixed roster; by-player-clusters
// tolerates substitutions.
type TeamIdentification string

const (
	IdentifyTeamsByDistinctPlayers TeamIdentification = "by-distinct-players"
	IdentifyTeamsByPlayerClusters  TeamIdentification = "by-player-clusters"
)

// ReplayStatus is the processing state of an uploaded replay.
type ReplayStatus string

const (
	ReplayStatusOK      ReplayStatus = "ok"
	ReplayStatusPending ReplayStatus = "pending"
	ReplayStatusFailed  ReplayStatus = "failed"
)
