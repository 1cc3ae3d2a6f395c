package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestConvertMongoError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, ConvertMongoError(nil))
	})

	t.Run("no documents becomes not found", func(t *testing.T) {
		err := ConvertMongoError(fmt.Errorf("find: %w", mongo.ErrNoDocuments))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, StatusNotFound, StatusOf(err))
	})

	t.Run("duplicate key becomes conflict", func(t *testing.T) {
		dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
		err := ConvertMongoError(dup)
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.Equal(t, StatusConflict, StatusOf(err))
	})

	t.Run("own errors pass through", func(t *testing.T) {
		assert.Same(t, ErrPublishConflict, ConvertMongoError(ErrPublishConflict))
	})

	t.Run("unknown errors become 500", func(t *testing.T) {
		err := ConvertMongoError(errors.New("boom"))
		assert.Equal(t, StatusInternalServerError, StatusOf(err))
	})
}

func TestWithDetails(t *testing.T) {
	err := WithDetails(ErrValidation, map[string]string{"title": "required"})

	assert.ErrorIs(t, err, ErrValidation)
	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, map[string]string{"title": "required"}, e.Details)

	// the prebuilt value must not be mutated
	assert.Nil(t, ErrValidation.(*Error).Details)
}

func TestWithMessageKeepsIdentity(t *testing.T) {
	err := WithMessage(ErrInvalidCredentials, "Current password is incorrect")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotErrorIs(t, err, ErrAccountDisabled)
	assert.Equal(t, "Current password is incorrect", err.Error())

	// copies of copies still resolve to the prebuilt value
	err = WithDetails(err, "detail")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusConflict, StatusOf(fmt.Errorf("wrapped: %w", ErrPublishConflict)))
	assert.Equal(t, StatusInternalServerError, StatusOf(errors.New("plain")))
}

func TestErrorEnvelope(t *testing.T) {
	status, env := ErrorEnvelope(WithDetails(ErrPublishConflict, map[string]string{"type": "faq"}), false)
	assert.Equal(t, StatusConflict, status)
	assert.Equal(t, StatusConflict, env.Response.ResponseCode)
	assert.Equal(t, ErrCodeBusinessState.Code, env.Response.ErrorCode)
	assert.Equal(t, map[string]string{"type": "faq"}, env.Response.Details)
	assert.Nil(t, env.Data)

	status, env = ErrorEnvelope(errors.New("driver exploded"), false)
	assert.Equal(t, StatusInternalServerError, status)
	assert.Equal(t, MsgInternalError, env.Response.ResponseMessage)
	assert.Nil(t, env.Response.Details)

	_, env = ErrorEnvelope(errors.New("driver exploded"), true)
	assert.Equal(t, "driver exploded", env.Response.Details)

	ok := SuccessEnvelope(StatusCreated, MsgCreated, map[string]int{"n": 1})
	assert.Equal(t, StatusCreated, ok.Response.ResponseCode)
	assert.Empty(t, ok.Response.ErrorCode)
}
