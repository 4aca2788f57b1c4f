package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"choreblimey/internal/models"
	"choreblimey/internal/repositories"
	"choreblimey/internal/routes"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))

	app := fiber.New()
	routes.SetupRoutes(app, db, nil)
	return app, db
}

func signToken(t *testing.T, userID, familyID uint, role string) string {
	t.Helper()

	claims := &models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:   userID,
		FamilyID: familyID,
		Role:     role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("choreblimey-dev"))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func seedWallet(t *testing.T, db *gorm.DB, familyID, childID uint, balancePence int64) {
	t.Helper()
	require.NoError(t, db.Create(&models.Wallet{
		FamilyID: familyID, ChildID: childID, BalancePence: balancePence,
	}).Error)
}

func TestSettleEndpoint(t *testing.T) {
	app, db := setupApp(t)
	seedWallet(t, db, 1, 10, 500)
	token := signToken(t, 2, 1, models.RoleParent)

	resp := doJSON(t, app, fiber.MethodPost, "/api/payouts/", token, fiber.Map{
		"child_id":           10,
		"amount_pence":       500,
		"chore_amount_pence": 500,
		"method":             "cash",
		"note":               "weekly payout",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	payout := body["data"].(map[string]interface{})["payout"].(map[string]interface{})
	assert.EqualValues(t, 500, payout["amountPence"])
	assert.NotEmpty(t, payout["reference"])

	var wallet models.Wallet
	require.NoError(t, db.Where("family_id = ? AND child_id = ?", 1, 10).First(&wallet).Error)
	assert.Equal(t, int64(0), wallet.BalancePence)
}

func TestSettleEndpoint_ErrorMapping(t *testing.T) {
	app, db := setupApp(t)
	seedWallet(t, db, 1, 10, 200)
	token := signToken(t, 2, 1, models.RoleParent)

	tests := []struct {
		name       string
		body       fiber.Map
		wantStatus int
		wantCode   string
	}{
		{
			name: "insufficient balance",
			body: fiber.Map{
				"child_id": 10, "amount_pence": 500,
				"chore_amount_pence": 500, "method": "cash",
			},
			wantStatus: fiber.StatusConflict,
			wantCode:   "INSUFFICIENT_BALANCE",
		},
		{
			name: "unknown gift",
			body: fiber.Map{
				"child_id": 10, "amount_pence": 300,
				"chore_amount_pence": 0, "gift_ids": []uint{42}, "method": "cash",
			},
			wantStatus: fiber.StatusConflict,
			wantCode:   "INVALID_GIFT_SELECTION",
		},
		{
			name: "bad method",
			body: fiber.Map{
				"child_id": 10, "amount_pence": 100,
				"chore_amount_pence": 100, "method": "gold bars",
			},
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name: "zero amount",
			body: fiber.Map{
				"child_id": 10, "amount_pence": 0,
				"chore_amount_pence": 0, "method": "cash",
			},
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, fiber.MethodPost, "/api/payouts/", token, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decodeBody(t, resp)
			errObj := body["error"].(map[string]interface{})
			assert.Equal(t, tt.wantCode, errObj["code"])
		})
	}
}

func TestSettleEndpoint_AuthAndRoles(t *testing.T) {
	app, _ := setupApp(t)

	body := fiber.Map{
		"child_id": 10, "amount_pence": 100,
		"chore_amount_pence": 100, "method": "cash",
	}

	resp := doJSON(t, app, fiber.MethodPost, "/api/payouts/", "", body)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	childToken := signToken(t, 10, 1, models.RoleChild)
	resp = doJSON(t, app, fiber.MethodPost, "/api/payouts/", childToken, body)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestSettleEndpoint_FamilyComesFromToken(t *testing.T) {
	app, db := setupApp(t)
	seedWallet(t, db, 1, 10, 500)

	// A parent in family 2 cannot touch family 1's wallet; the engine
	// lazily creates an empty family-2 wallet and rejects on balance.
	otherFamily := signToken(t, 3, 2, models.RoleParent)
	resp := doJSON(t, app, fiber.MethodPost, "/api/payouts/", otherFamily, fiber.Map{
		"child_id": 10, "amount_pence": 500,
		"chore_amount_pence": 500, "method": "cash",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var wallet models.Wallet
	require.NoError(t, db.Where("family_id = ? AND child_id = ?", 1, 10).First(&wallet).Error)
	assert.Equal(t, int64(500), wallet.BalancePence)
}

func TestListPayoutsEndpoint(t *testing.T) {
	app, db := setupApp(t)
	seedWallet(t, db, 1, 10, 800)
	token := signToken(t, 2, 1, models.RoleParent)

	for _, amount := range []int64{300, 500} {
		resp := doJSON(t, app, fiber.MethodPost, "/api/payouts/", token, fiber.Map{
			"child_id": 10, "amount_pence": amount,
			"chore_amount_pence": amount, "method": "bank_transfer",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, app, fiber.MethodGet, "/api/payouts/?child_id=10", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	payouts := body["data"].(map[string]interface{})["payouts"].([]interface{})
	assert.Len(t, payouts, 2)

	resp = doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/payouts/?child_id=%d", 99), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Empty(t, body["data"].(map[string]interface{})["payouts"])
}
