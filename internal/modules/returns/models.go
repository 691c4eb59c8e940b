package returns

import "time"

// Return is a single return case, 1:1 with its order. Mutated exclusively
// through the Service; never hard-deleted (kept for audit).
type Return struct {
	ID      string  `gorm:"primaryKey;size:36" json:"id"`
	OrderID string  `gorm:"size:36;index" json:"order_id"`
	UserID  *string `gorm:"size:36;index" json:"user_id,omitempty"`

	Status Status       `gorm:"size:40;index" json:"status"`
	Items  []ReturnItem `gorm:"foreignKey:ReturnID" json:"items"`

	AdminNotes      *string `gorm:"type:text" json:"admin_notes,omitempty"`
	ReturnLabelURL  *string `gorm:"size:500" json:"return_label_url,omitempty"`
	LabelArchiveKey *string `gorm:"size:200" json:"-"`

	ReceivedAt *time.Time `json:"received_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Return) TableName() string { return "returns" }

type ReturnItem struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	ReturnID    string `gorm:"size:36;index" json:"return_id"`
	OrderItemID string `gorm:"size:36" json:"order_item_id"`
	Quantity    int    `json:"quantity"`
	Reason      string `gorm:"size:500" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}

func (ReturnItem) TableName() string { return "return_items" }

// StatusHistory is append-only: one row per transition, never updated or
// deleted. It renders the return timeline.
type StatusHistory struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	ReturnID    string  `gorm:"size:36;index" json:"return_id"`
	Status      Status  `gorm:"size:40" json:"status"`
	ActorUserID *string `gorm:"size:36" json:"actor_user_id,omitempty"`
	Notes       *string `gorm:"size:500" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (StatusHistory) TableName() string { return "return_status_history" }
