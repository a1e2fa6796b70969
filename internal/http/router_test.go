package http_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpcarvalho/recibo/internal/backend"
	"github.com/jpcarvalho/recibo/internal/category"
	reciboHttp "github.com/jpcarvalho/recibo/internal/http"
	"github.com/jpcarvalho/recibo/internal/http/categories"
	"github.com/jpcarvalho/recibo/internal/http/receipts"
	"github.com/jpcarvalho/recibo/internal/http/recognition"
	"github.com/jpcarvalho/recibo/internal/receipt"
)

// newStub spins up the full stub API and returns a real client pointed at
// it, exercising both sides of the wire format at once.
func newStub(t *testing.T, authorized map[string]bool) *backend.Client {
	t.Helper()

	store := categories.Seeded()
	router := reciboHttp.New(
		categories.NewHandler(store),
		recognition.NewHandler(store, authorized),
		receipts.NewHandler(),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return backend.NewClient(server.URL, 5*time.Second)
}

func allAuthorized() map[string]bool {
	return map[string]bool{
		backend.ModelClaude: true,
		backend.ModelOpenAI: true,
	}
}

func writeTempReceipt(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "receipt.jpg")
	require.NoError(t, os.WriteFile(path, []byte("fake image bytes"), 0o644))

	return path
}

func TestStub_CheckConnection(t *testing.T) {
	client := newStub(t, map[string]bool{backend.ModelClaude: true})

	assert.NoError(t, client.CheckConnection(context.Background(), backend.ModelClaude))

	err := client.CheckConnection(context.Background(), backend.ModelOpenAI)
	assert.ErrorIs(t, err, backend.ErrAuthentication)
}

func TestStub_ListSeededCategories(t *testing.T) {
	client := newStub(t, allAuthorized())

	got, err := client.ListCategories(context.Background(), category.TypeAsset)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Electronics", got[0].Name)
	assert.Equal(t, "Furniture", got[1].Name)
}

func TestStub_CreateCategoryRoundTrip(t *testing.T) {
	client := newStub(t, allAuthorized())
	ctx := context.Background()

	err := client.CreateCategory(ctx, category.TypeSoftware, category.Category{
		Name:  "Developer Tools",
		Icon:  "wrench",
		Color: "#ff00ff",
	})
	require.NoError(t, err)

	got, err := client.ListCategories(ctx, category.TypeSoftware)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Developer Tools", got[1].Name)

	// Duplicate names are rejected case-insensitively.
	err = client.CreateCategory(ctx, category.TypeSoftware, category.Category{Name: "developer tools"})
	assert.Error(t, err)
}

func TestStub_Recognize(t *testing.T) {
	client := newStub(t, allAuthorized())

	result, err := client.Recognize(context.Background(), receipt.RecognizeRequest{
		FilePath:     writeTempReceipt(t),
		Model:        backend.ModelClaude,
		FullAnalysis: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Office Supply", result.Fields.VendorName)
	assert.Equal(t, int64(35229), result.Fields.TotalAmount)

	require.Len(t, result.LineItems, 3)
	assert.Equal(t, "Laser printer", result.LineItems[0].Description)
	assert.Equal(t, category.TypeAsset, result.LineItems[0].ObjectType)
	assert.Equal(t, int64(24999), result.LineItems[0].UnitPrice)
	assert.Equal(t, 5, result.LineItems[1].Quantity)
}

func TestStub_Recognize_BasicPassHasNoItems(t *testing.T) {
	client := newStub(t, allAuthorized())

	result, err := client.Recognize(context.Background(), receipt.RecognizeRequest{
		FilePath: writeTempReceipt(t),
		Model:    backend.ModelClaude,
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Office Supply", result.Fields.VendorName)
	assert.Empty(t, result.LineItems)
}

func TestStub_Recognize_Unauthorized(t *testing.T) {
	client := newStub(t, map[string]bool{backend.ModelClaude: false})

	_, err := client.Recognize(context.Background(), receipt.RecognizeRequest{
		FilePath: writeTempReceipt(t),
		Model:    backend.ModelClaude,
	})

	assert.ErrorIs(t, err, backend.ErrAuthentication)
}

func TestStub_SuggestMatchesExistingCategory(t *testing.T) {
	client := newStub(t, allAuthorized())

	result, err := client.SuggestCategory(context.Background(), category.SuggestRequest{
		Description: "paper and pens",
		ObjectType:  category.TypeConsumable,
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.All)
	assert.Equal(t, "Office Supplies", result.All[0].Name)
	assert.Empty(t, result.Created)
}

func TestStub_SuggestCreatesCategory(t *testing.T) {
	client := newStub(t, allAuthorized())
	ctx := context.Background()

	result, err := client.SuggestCategory(ctx, category.SuggestRequest{
		Description: "quadcopter drone",
		ObjectType:  category.TypeAsset,
	})
	require.NoError(t, err)

	require.Len(t, result.Created, 1)
	assert.Equal(t, "Quadcopter", result.Created[0].Name)
	assert.Equal(t, "Quadcopter", result.All[0].Name)

	// The created category is persisted: a catalog reload now carries it,
	// which is what lets the client auto-select it afterwards.
	got, err := client.ListCategories(ctx, category.TypeAsset)
	require.NoError(t, err)
	assert.Equal(t, "Quadcopter", category.Reselect(got, "quadcopter"))
}

func TestStub_SubmitDraft(t *testing.T) {
	client := newStub(t, allAuthorized())

	draft := receipt.NewDraft()
	draft.VendorName = "Acme Office Supply"
	draft.Date = "2024-03-10"
	draft.TotalAmount = 35229
	draft.SourceFile = writeTempReceipt(t)
	draft.LineItems = []receipt.LineItem{
		{
			Index:        0,
			Description:  "Laser printer",
			Quantity:     1,
			UnitPrice:    24999,
			TotalPrice:   24999,
			ObjectType:   category.TypeAsset,
			Category:     "Electronics",
			CreateObject: true,
		},
	}

	assert.NoError(t, client.SubmitDraft(context.Background(), draft))
}

func TestStub_SubmitDraft_MissingFieldsRejected(t *testing.T) {
	client := newStub(t, allAuthorized())

	draft := receipt.NewDraft()
	draft.SourceFile = writeTempReceipt(t)
	draft.VendorName = "Acme"
	draft.Date = ""
	draft.TotalAmount = 0

	err := client.SubmitDraft(context.Background(), draft)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required fields")
}
