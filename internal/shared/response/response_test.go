package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFlattenErrors(t *testing.T) {
	errs := validation.Errors{
		"firstName": errors.New("cannot be blank"),
		"books": validation.Errors{
			"0": validation.Errors{"title": errors.New("cannot be blank")},
		},
		"skipped": nil,
	}

	out := FlattenErrors(errs)

	assert.Equal(t, []string{"cannot be blank"}, out["firstName"])
	assert.Equal(t, []string{"cannot be blank"}, out["books.0.title"])
	assert.NotContains(t, out, "skipped")
}

func TestValidation_WritesProblem(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handled := Validation(c, validation.Errors{"title": errors.New("cannot be blank")})
	require.True(t, handled)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 400, body.Status)
	assert.Equal(t, []string{"cannot be blank"}, body.Errors["title"])
}

func TestValidation_IgnoresOtherErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	assert.False(t, Validation(c, errors.New("boom")))
	assert.False(t, c.Writer.Written())
}
