package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrgCategory string

const (
	OrgCategoryTech     OrgCategory = "Tech"
	OrgCategoryArts     OrgCategory = "Arts"
	OrgCategoryCultural OrgCategory = "Cultural"
	OrgCategorySports   OrgCategory = "Sports"
	OrgCategoryOther    OrgCategory = "Other"
)

type SocialLinks struct {
	Website   string `json:"website,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
}

type Organization struct {
	ID           string      `gorm:"type:uuid;primary_key" json:"id"`
	Name         string      `gorm:"not null" json:"name"`
	Description  string      `json:"description"`
	Category     OrgCategory `gorm:"type:varchar(20);default:'Other'" json:"category"`
	ContactEmail string      `json:"contactEmail"`
	Logo         string      `json:"logo"`
	Website      string      `json:"-"`
	Instagram    string      `json:"-"`
	Twitter      string      `json:"-"`
	PresidentID  string      `gorm:"type:uuid;not null;index" json:"president_id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	President *User `gorm:"foreignKey:PresidentID" json:"-"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// OrganizationView is the API shape: social links grouped, president and
// members resolved to public user projections.
type OrganizationView struct {
	Organization
	SocialLinks SocialLinks  `json:"socialLinks"`
	President   PublicUser   `json:"president"`
	Members     []PublicUser `json:"members"`
}

func (o *Organization) View(president PublicUser, members []PublicUser) OrganizationView {
	if members == nil {
		members = []PublicUser{}
	}
	return OrganizationView{
		Organization: *o,
		SocialLinks:  SocialLinks{Website: o.Website, Instagram: o.Instagram, Twitter: o.Twitter},
		President:    president,
		Members:      members,
	}
}

// OrganizationMember is one row per (organization, user) pair. The president
// is inserted as the first member at creation time.
type OrganizationMember struct {
	ID             string    `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID string    `gorm:"type:uuid;not null;uniqueIndex:idx_org_member" json:"organization_id"`
	UserID         string    `gorm:"type:uuid;not null;uniqueIndex:idx_org_member" json:"user_id"`
	CreatedAt      time.Time `json:"created_at"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	User         User         `gorm:"foreignKey:UserID" json:"-"`
}

func (m *OrganizationMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// OrganizationFollow is one row per (user, organization) pair.
type OrganizationFollow struct {
	ID             string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID         string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_org" json:"user_id"`
	OrganizationID string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_org" json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`

	User         User         `gorm:"foreignKey:UserID" json:"-"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

func (f *OrganizationFollow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
