// internal/domain/models/entities.go
package models

// SecurityQuestion belongs to a club and is synced item by item.
type SecurityQuestion struct {
	ID       int64  `json:"id,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// GalleryImage is one image of an event, news or listing gallery.
type GalleryImage struct {
	ID      int64  `json:"id,omitempty"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
	Sort    int    `json:"sort"`
}

type Club struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	Logo              string             `json:"logo,omitempty"`
	Status            string             `json:"status"`
	IsPublic          bool               `json:"is_public"`
	FoundedAt         string             `json:"founded_at,omitempty"`
	MemberCount       int                `json:"member_count"`
	SecurityQuestions []SecurityQuestion `json:"security_questions"`
}

type Event struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Venue       string         `json:"venue"`
	StartAt     string         `json:"start_at"`
	EndAt       string         `json:"end_at"`
	Status      string         `json:"status"`
	Image       string         `json:"image,omitempty"`
	IsPaid      bool           `json:"is_paid"`
	Fee         string         `json:"fee,omitempty"`
	ClubID      int64          `json:"club_id,omitempty"`
	ClubName    string         `json:"club_name,omitempty"`
	Galleries   []GalleryImage `json:"galleries"`
}

type News struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Summary     string         `json:"summary"`
	Content     string         `json:"content"`
	Image       string         `json:"image,omitempty"`
	Status      string         `json:"status"`
	IsPublic    bool           `json:"is_public"`
	PublishedAt string         `json:"published_at,omitempty"`
	Gallery     []GalleryImage `json:"gallery"`
}

type Listing struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       string         `json:"price"`
	Category    string         `json:"category"`
	Status      string         `json:"status"`
	Image       string         `json:"image,omitempty"`
	VendorID    int64          `json:"vendor_id,omitempty"`
	VendorName  string         `json:"vendor_name,omitempty"`
	ExpireAt    string         `json:"expire_at,omitempty"`
	Galleries   []GalleryImage `json:"galleries"`
}

type Payment struct {
	ID                 int64  `json:"id"`
	Reference          string `json:"reference"`
	Amount             string `json:"amount"`
	Currency           string `json:"currency"`
	Purpose            string `json:"purpose"`
	Status             string `json:"status"`
	IsPaid             bool   `json:"is_paid"`
	PaidAt             string `json:"paid_at,omitempty"`
	UserID             int64  `json:"user_id"`
	UserName           string `json:"user_name"`
	TransferScreenshot string `json:"transfer_screenshot,omitempty"`
	Remarks            string `json:"remarks,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
}

type Vendor struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	ContactName    string `json:"contact_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Category       string `json:"category"`
	CompanyName    string `json:"company_name"`
	CompanyRegNo   string `json:"company_reg_no"`
	CompanyAddress string `json:"company_address"`
	Website        string `json:"website,omitempty"`
	Logo           string `json:"logo,omitempty"`
	Status         string `json:"status"`
}

type Ad struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Placement string `json:"placement"`
	Image     string `json:"image,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	EnableAds bool   `json:"enable_ads"`
	Status    string `json:"status"`
}

// VendorEmailCheck is the backend's answer to an email lookup during
// vendor registration.
type VendorEmailCheck struct {
	Exists   bool   `json:"exists"`
	IsVendor bool   `json:"is_vendor"`
	UserID   int64  `json:"user_id,omitempty"`
	Name     string `json:"name,omitempty"`
}
