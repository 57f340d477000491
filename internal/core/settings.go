package core

import "errors"

type (
	Language string
	Currency string
)

const (
	English Language = "en"
	Hindi   Language = "hi"
	Tamil   Language = "ta"
	Telugu  Language = "te"
	Bengali Language = "bn"
	Marathi Language = "mr"
)

const (
	Rupee  Currency = "₹"
	Dollar Currency = "$"
	Euro   Currency = "€"
	Pound  Currency = "£"
)

var (
	ErrInvalidLanguage = errors.New("invalid language")
	ErrInvalidCurrency = errors.New("invalid currency")
)

func (l Language) IsValid() bool {
	switch l {
	case English, Hindi, Tamil, Telugu, Bengali, Marathi:
		return true
	}
	return false
}

func (c Currency) IsValid() bool {
	switch c {
	case Rupee, Dollar, Euro, Pound:
		return true
	}
	return false
}

// ISOCode maps the currency symbol to its ISO 4217 code.
func (c Currency) ISOCode() string {
	switch c {
	case Dollar:
		return "USD"
	case Euro:
		return "EUR"
	case Pound:
		return "GBP"
	default:
		return "INR"
	}
}

// DefaultSettings returns the settings of a fresh installation.
func DefaultSettings() Settings {
	return Settings{
		Language:      English,
		Currency:      Rupee,
		Notifications: true,
	}
}

// DefaultProfile returns the profile of a fresh installation.
func DefaultProfile() UserProfile {
	return UserProfile{Name: "Guest User"}
}
