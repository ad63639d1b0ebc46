package api

import "github.com/shopspring/decimal"

// Amounts travel as decimal strings ("250.00"), never as floats.

type User struct {
	ID            string `json:"id"`
	Phone         string `json:"phone"`
	DisplayName   string `json:"display_name"`
	PayoutAddress string `json:"payout_address,omitempty"`
}

type Member struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	PayoutAddress string `json:"payout_address,omitempty"`
}

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	OwnerID   string   `json:"owner_id"`
	Members   []Member `json:"members,omitempty"`
	CreatedAt int64    `json:"created_at"`
}

// Item is one bill line. MaxQuantity is the quantity printed on the receipt.
type Item struct {
	Index        int             `json:"index"`
	Name         string          `json:"name"`
	MaxQuantity  int             `json:"max_quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

type Tax struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Selection is the caller's claim on one item.
type Selection struct {
	ItemIndex int  `json:"item_index"`
	Selected  bool `json:"selected"`
	Quantity  int  `json:"quantity"`
}

// Bill is the group's active bill as seen by the caller.
type Bill struct {
	GroupID    string `json:"group_id"`
	UploaderID string `json:"uploader_id"`
	// State is "empty" or "items_loaded".
	State        string          `json:"state"`
	Items        []Item          `json:"items"`
	Taxes        []Tax           `json:"taxes"`
	TotalTax     decimal.Decimal `json:"total_tax"`
	MySelections []Selection     `json:"my_selections"`
	// Unclaimed holds indexes of items no member has selected.
	Unclaimed []int `json:"unclaimed"`
	Version   int64 `json:"version"`
}

// Auth

type RegisterRequest struct {
	Phone       string `json:"phone"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type UpdatePayoutAddressRequest struct {
	PayoutAddress string `json:"payout_address"`
}

type UpdatePayoutAddressResponse struct {
	User *User `json:"user"`
}

// Groups

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

// AddMemberRequest adds the registered user with Phone to the group.
type AddMemberRequest struct {
	GroupID string `json:"group_id"`
	Phone   string `json:"phone"`
}

type AddMemberResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

// Bills

// UploadBillRequest carries a JPEG or PNG receipt, base64 encoded on the wire.
type UploadBillRequest struct {
	GroupID string `json:"group_id"`
	Image   []byte `json:"image"`
}

type UploadBillResponse struct {
	Bill *Bill `json:"bill"`
	// Dropped describes receipt entries that failed validation.
	Dropped []string `json:"dropped,omitempty"`
}

type GetBillRequest struct {
	GroupID string `json:"group_id"`
}

type GetBillResponse struct {
	Bill *Bill `json:"bill"`
}

type SelectionRequest struct {
	GroupID   string `json:"group_id"`
	ItemIndex int    `json:"item_index"`
}

type ToggleSelectionRequest struct {
	GroupID   string `json:"group_id"`
	ItemIndex int    `json:"item_index"`
	Selected  bool   `json:"selected"`
}

// SelectionResponse is returned by every selection mutation.
type SelectionResponse struct {
	Selection Selection `json:"selection"`
	Version   int64     `json:"version"`
}

type SummarizeSelectionsRequest struct {
	GroupID string `json:"group_id"`
}

type MemberSummary struct {
	MemberID    string   `json:"member_id"`
	DisplayName string   `json:"display_name"`
	Lines       []string `json:"lines"`
}

type SummarizeSelectionsResponse struct {
	Members []MemberSummary `json:"members"`
}

type GetSettlementRequest struct {
	GroupID string `json:"group_id"`
}

type PayerView struct {
	AmountOwed   decimal.Decimal `json:"amount_owed"`
	Display      string          `json:"display"`
	TaxShare     decimal.Decimal `json:"tax_share"`
	Lines        []string        `json:"lines"`
	PayToID      string          `json:"pay_to_id"`
	PayToName    string          `json:"pay_to_name"`
	PayToAddress string          `json:"pay_to_address,omitempty"`
	PaymentLink  string          `json:"payment_link,omitempty"`
	Warning      string          `json:"warning,omitempty"`
}

type MemberOwed struct {
	MemberID    string          `json:"member_id"`
	DisplayName string          `json:"display_name"`
	Amount      decimal.Decimal `json:"amount"`
	Display     string          `json:"display"`
}

type CollectorView struct {
	Owed         []MemberOwed    `json:"owed"`
	Total        decimal.Decimal `json:"total"`
	TotalDisplay string          `json:"total_display"`
}

// GetSettlementResponse sets Collector for the uploader and Payer for
// everyone else.
type GetSettlementResponse struct {
	TotalTax     decimal.Decimal `json:"total_tax"`
	TaxPerPerson decimal.Decimal `json:"tax_per_person"`
	Payer        *PayerView      `json:"payer,omitempty"`
	Collector    *CollectorView  `json:"collector,omitempty"`
}

type ClearBillRequest struct {
	GroupID string `json:"group_id"`
}

type ClearBillResponse struct{}
