package models

// Markers holds the label fragments identifying the special rows. A row
// matches a marker when its label contains any of the fragments, ignoring case.
type Markers struct {
	TotalAssets        []string `yaml:"total_assets" json:"total_assets"`
	CurrentAssets      []string `yaml:"current_assets" json:"current_assets"`
	CurrentLiabilities []string `yaml:"current_liabilities" json:"current_liabilities"`
}

// RawRow is one uploaded row before numeric coercion.
type RawRow struct {
	Label   string
	Prior   string
	Current string
}

// LineItem is one row of the balance sheet.
type LineItem struct {
	Label   string  `json:"label"`
	Prior   float64 `json:"prior"`
	Current float64 `json:"current"`
}

// AnnotatedLineItem is a LineItem with its derived percentages.
type AnnotatedLineItem struct {
	LineItem
	GrowthPct       float64 `json:"growth_pct"`
	PriorSharePct   float64 `json:"prior_share_pct"`
	CurrentSharePct float64 `json:"current_share_pct"`
}

// Liquidity is the current ratio for both periods. Available is false when a
// marker row is missing, Missing then names the absent markers.
type Liquidity struct {
	Available bool     `json:"available"`
	Prior     float64  `json:"prior"`
	Current   float64  `json:"current"`
	Delta     float64  `json:"delta"`
	Missing   []string `json:"missing,omitempty"`
}

// Snapshot is the derived view of one uploaded table.
type Snapshot struct {
	Items              []AnnotatedLineItem `json:"items"`
	TotalAssetsPrior   float64             `json:"total_assets_prior"`
	TotalAssetsCurrent float64             `json:"total_assets_current"`
	Liquidity          Liquidity           `json:"liquidity"`
	// CurrentAssetsGrowth is nil when no current assets row exists.
	CurrentAssetsGrowth *float64 `json:"current_assets_growth,omitempty"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message of a chat session.
type ConversationTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
