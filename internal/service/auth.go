package service

import (
	"errors"
	"regexp"
	"strings"

	"invest_system/internal/domain"
	"invest_system/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// phoneRe accepts an optional leading + followed by 10 to 15 digits
var phoneRe = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// RegisterInput carries the raw registration form fields
type RegisterInput struct {
	Username     string
	Email        string
	Phone        string
	Password     string
	ReferrerCode string
}

// ValidPhone reports whether phone matches the accepted format
func ValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

// Register validates the input, creates the user with a hashed password and a
// fresh unique referral code, and links the referral when a code was supplied.
// It returns the created user and the referrer's ID (0 when none).
func Register(db *gorm.DB, in RegisterInput) (*domain.User, uint, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)
	code := strings.ToUpper(strings.TrimSpace(in.ReferrerCode))

	if username == "" || email == "" || phone == "" || in.Password == "" {
		return nil, 0, ErrAllFieldsRequired
	}
	taken, err := UsernameExists(db, username)
	if err != nil {
		return nil, 0, err
	}
	if taken {
		return nil, 0, ErrUsernameTaken
	}
	taken, err = EmailExists(db, email)
	if err != nil {
		return nil, 0, err
	}
	if taken {
		return nil, 0, ErrEmailTaken
	}
	if len(in.Password) < MinPasswordLength {
		return nil, 0, ErrPasswordTooShort
	}
	if !ValidPhone(phone) {
		return nil, 0, ErrInvalidPhone
	}

	// A non-empty referrer code must resolve to an existing user
	var referrer *domain.User
	if code != "" {
		var r domain.User
		if err := db.Where("referral_code = ?", code).First(&r).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrInvalidReferral
			}
			return nil, 0, err
		}
		referrer = &r
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, 0, err
	}
	referralCode, err := newReferralCode(db)
	if err != nil {
		return nil, 0, err
	}

	user := domain.User{
		Username:     username,
		Email:        email,
		Phone:        phone,
		Password:     string(hash),
		ReferralCode: referralCode,
	}
	if referrer != nil {
		user.ReferredBy = code
	}
	// User row and referral link persist together or not at all
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if referrer != nil {
			return tx.Create(&domain.Referral{
				ReferrerID: referrer.ID,
				ReferredID: user.ID,
				Level:      1,
			}).Error
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if referrer != nil {
		return &user, referrer.ID, nil
	}
	return &user, 0, nil
}

// Authenticate verifies the credentials and returns the matching user
func Authenticate(db *gorm.DB, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	var user domain.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// UsernameExists reports whether a username is already registered
func UsernameExists(db *gorm.DB, username string) (bool, error) {
	var n int64
	err := db.Model(&domain.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

// EmailExists reports whether an email is already registered
func EmailExists(db *gorm.DB, email string) (bool, error) {
	var n int64
	err := db.Model(&domain.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

// ReferrerExists reports whether a referral code belongs to a user
func ReferrerExists(db *gorm.DB, code string) (bool, error) {
	var n int64
	err := db.Model(&domain.User{}).Where("referral_code = ?", code).Count(&n).Error
	return n > 0, err
}

// newReferralCode draws random codes until one is free
func newReferralCode(db *gorm.DB) (string, error) {
	for {
		code := utils.GenerateReferralCode()
		var n int64
		if err := db.Model(&domain.User{}).Where("referral_code = ?", code).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return code, nil
		}
	}
}
