package repository

import (
	"testing"

	"emperror.dev/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestLikePattern(t *testing.T) {
	cases := map[string]string{
		"Cat":      "%cat%",
		"100%":     `%100\%%`,
		"a_b":      `%a\_b%`,
		`back\sla`: `%back\\sla%`,
	}
	for in, want := range cases {
		assert.Equal(t, want, likePattern(in), in)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(errors.WrapIf(&pgconn.PgError{Code: "23505"}, "insert")))
	assert.False(t, IsDuplicateKey(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: users.wallet_address")))
	assert.False(t, IsDuplicateKey(gorm.ErrRecordNotFound))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(errors.WrapIf(gorm.ErrRecordNotFound, "query")))
	assert.False(t, IsNotFound(gorm.ErrDuplicatedKey))
}
