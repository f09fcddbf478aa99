package discovery

// Tier is a Star Citizen release channel with its own install folder.
type Tier string

const (
	TierLive   Tier = "LIVE"
	TierPTU    Tier = "PTU"
	TierHotfix Tier = "HOTFIX"
)

// Tiers lists the channels in the order they are checked.
var Tiers = []Tier{TierLive, TierPTU, TierHotfix}

// LogFileName is the client log written inside each tier folder.
const LogFileName = "Game.log"

// gameDirName is the folder under an RSI root holding the tier folders.
const gameDirName = "StarCitizen"

// publisherDirName is the folder under %APPDATA% used by the launcher.
const publisherDirName = "Roberts Space Industries"
