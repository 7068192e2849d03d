package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User roles. Informational for now, nothing gates on them yet.
const (
	RoleProfessional = "professional"
	RoleStudent      = "student"
	RoleEducator     = "educator"
	RoleRecruiter    = "recruiter"
	RoleCompany      = "company"
	RoleAdmin        = "admin"
)

// SocialLinks is a sparse set of optional profile URLs
type SocialLinks struct {
	Website   string `json:"website"`
	Linkedin  string `json:"linkedin"`
	Twitter   string `json:"twitter"`
	Github    string `json:"github"`
	Youtube   string `json:"youtube"`
	Instagram string `json:"instagram"`
}

// VerificationStatus holds three independent informational flags
type VerificationStatus struct {
	Identity     bool `json:"identity" gorm:"default:false"`
	Education    bool `json:"education" gorm:"default:false"`
	Professional bool `json:"professional" gorm:"default:false"`
}

type User struct {
	gorm.Model
	Name               string             `json:"name" gorm:"not null"`
	Email              string             `json:"email" gorm:"unique;not null"`
	Password           string             `json:"-" gorm:"not null"`
	Role               string             `json:"role" gorm:"default:'professional'"`
	Avatar             string             `json:"avatar"`
	Bio                string             `json:"bio"`
	Title              string             `json:"title"`
	Location           string             `json:"location"`
	Skills             datatypes.JSON     `json:"skills" gorm:"type:json"`
	SocialLinks        SocialLinks        `json:"socialLinks" gorm:"embedded;embeddedPrefix:social_"`
	Verified           bool               `json:"verified" gorm:"default:false"`
	VerificationStatus VerificationStatus `json:"verificationStatus" gorm:"embedded;embeddedPrefix:verification_"`
	Education          []Education        `json:"education" gorm:"foreignKey:UserID"`
	Experience         []Experience       `json:"experience" gorm:"foreignKey:UserID"`
	Achievements       []Achievement      `json:"achievements" gorm:"foreignKey:UserID"`
}

// Education is one study entry; Current means EndDate is absent/ignored
type Education struct {
	gorm.Model
	UserID      uint       `json:"-" gorm:"index;not null"`
	Institution string     `json:"institution" gorm:"not null"`
	Degree      string     `json:"degree" gorm:"not null"`
	Field       string     `json:"field" gorm:"not null"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Current     bool       `json:"current" gorm:"default:false"`
	Description string     `json:"description"`
}

type Experience struct {
	gorm.Model
	UserID      uint       `json:"-" gorm:"index;not null"`
	Company     string     `json:"company" gorm:"not null"`
	Position    string     `json:"position" gorm:"not null"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Current     bool       `json:"current" gorm:"default:false"`
	Description string     `json:"description"`
}

type Achievement struct {
	gorm.Model
	UserID      uint      `json:"-" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
}

// UserSummary is the identity shape nested inside posts, members, reviews
type UserSummary struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Summary trims a user down to the nested identity shape
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}
