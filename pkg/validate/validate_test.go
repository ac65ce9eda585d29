package validate

import (
	"testing"

	"github.com/akinalp/gamevault/pkg"
	"github.com/stretchr/testify/assert"
)

func TestIsContact(t *testing.T) {
	valid := []string{
		"a@b.co",
		"john.doe@example.com",
		"jane-doe_42@mail.example.org",
		"x@sub-domain.example.info",
	}
	for _, s := range valid {
		assert.True(t, IsContact(s), s)
	}

	invalid := []string{
		"",
		"plain",
		"a@b",
		"a@b.c",
		"a@b.toolong",
		"a b@c.com",
		"a@@b.com",
		"a+tag@b.com",
		"@b.com",
	}
	for _, s := range invalid {
		assert.False(t, IsContact(s), s)
	}
}

type signup struct {
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,contact"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Struct(&signup{Password: "pw1", Email: "a@b.co"}))
	})

	t.Run("first failure wins", func(t *testing.T) {
		err := Struct(&signup{})
		assert.ErrorIs(t, err, pkg.ErrValidation)
		assert.NotErrorIs(t, err, pkg.ErrInvalidFormat)
		assert.Contains(t, err.Error(), "password is required")
	})

	t.Run("missing email", func(t *testing.T) {
		err := Struct(&signup{Password: "pw1"})
		assert.ErrorIs(t, err, pkg.ErrValidation)
		assert.NotErrorIs(t, err, pkg.ErrInvalidFormat)
		assert.Contains(t, err.Error(), "email is required")
	})

	t.Run("malformed email", func(t *testing.T) {
		err := Struct(&signup{Password: "pw1", Email: "nope"})
		assert.ErrorIs(t, err, pkg.ErrInvalidFormat)
		assert.ErrorIs(t, err, pkg.ErrValidation)
	})
}
