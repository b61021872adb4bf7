package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBusyTimeoutMS   = 5000
)

const (
	ShutdownTimeout = 5 * time.Second
)

// bracket
const (
	MaxBracketSize      = 16
	BracketTxAttempts   = 3
	BracketRetryBackoff = 20 * time.Millisecond
)

// riot
const (
	DefaultRegionPrefix = "KR_"
	BotPuuid            = "BOT"
	BlueSideCode        = 100
	TierBot             = "Bot"
	TierUnranked        = "Unranked"
	UnknownPlayerName   = "Unknown Bot"
	PositionAny         = "ANY"
	PositionInvalid     = "Invalid"
	PrimaryStyle        = "primaryStyle"
	SubStyle            = "subStyle"
	QueueRankedSolo     = "RANKED_SOLO_5x5"
	QueueRankedFlex     = "RANKED_FLEX_SR"
	ScoreBlueWin        = "1:0"
	ScoreRedWin         = "0:1"
	ItemSlots           = 7
)

const (
	TierLookupConcurrency = 4
)

const (
	DefaultBlueTeamName = "Blue Team"
	DefaultRedTeamName  = "Red Team"
)
