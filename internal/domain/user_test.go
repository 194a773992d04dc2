package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	t.Parallel()
	validEmail := "test@example.com"
	validName := "Test User"
	validPassword := "password123"

	user, err := NewUser(validEmail, validName, validPassword)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if user.Email != validEmail {
		t.Errorf("Expected email %s, got %s", validEmail, user.Email)
	}

	if user.Name != validName {
		t.Errorf("Expected name %s, got %s", validName, user.Name)
	}

	if user.Password != validPassword {
		t.Errorf("Expected password %s, got %s", validPassword, user.Password)
	}

	if user.HashedPassword != "" {
		t.Error("Expected empty hashed password on a freshly provisioned user")
	}

	if user.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if user.UpdatedAt.IsZero() {
		t.Error("Expected non-zero UpdatedAt time")
	}
}

func TestNewUserValidation(t *testing.T) {
	t.Parallel()
	validEmail := "test@example.com"
	validName := "Test User"
	validPassword := "password123"

	tests := []struct {
		name     string
		email    string
		userName string
		password string
		wantErr  error
	}{
		{"empty email", "", validName, validPassword, ErrEmptyEmail},
		{"missing @", "invalidemail", validName, validPassword, ErrInvalidEmail},
		{"missing local part", "@example.com", validName, validPassword, ErrInvalidEmail},
		{"missing domain dot", "test@example", validName, validPassword, ErrInvalidEmail},
		{"empty name", validEmail, "", validPassword, ErrEmptyName},
		{"blank name", validEmail, "   ", validPassword, ErrEmptyName},
		{"password too short", validEmail, validName, "short", ErrPasswordTooShort},
		{"empty password", validEmail, validName, "", ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tt.email, tt.userName, tt.password)
			if err != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}

	// Password over bcrypt's input limit
	longPassword := make([]byte, MaxPasswordLength+1)
	for i := range longPassword {
		longPassword[i] = 'a'
	}
	_, err := NewUser(validEmail, validName, string(longPassword))
	if err != ErrPasswordTooLong {
		t.Errorf("Expected error %v, got %v", ErrPasswordTooLong, err)
	}
}

func TestUserValidate(t *testing.T) {
	t.Parallel()
	validUser := User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		Name:           "Test User",
		HashedPassword: "hashedpassword123",
	}

	// A stored user carries only a hash; that is valid
	if err := validUser.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Nil ID
	invalidUser := validUser
	invalidUser.ID = uuid.Nil
	if err := invalidUser.Validate(); err != ErrEmptyUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyUserID, err)
	}

	// Neither plaintext nor hash present
	invalidUser = validUser
	invalidUser.HashedPassword = ""
	if err := invalidUser.Validate(); err != ErrEmptyPassword {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}
}
