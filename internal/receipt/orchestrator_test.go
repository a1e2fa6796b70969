package receipt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jpcarvalho/recibo/internal/backend"
	"github.com/jpcarvalho/recibo/internal/category"
	"github.com/jpcarvalho/recibo/internal/receipt"
)

func TestOrchestrator_ExtractBasic_NoFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No EXPECT: the error must be raised locally, without a remote call.
	recognizer := receipt.NewMockRecognizer(ctrl)
	orch := receipt.NewOrchestrator(recognizer, receipt.NewDraft(), backend.ModelClaude)

	applied, err := orch.ExtractBasic(context.Background())
	assert.False(t, applied)
	assert.ErrorIs(t, err, receipt.ErrNoFile)
}

func TestOrchestrator_ExtractBasic(t *testing.T) {
	type testCase struct {
		name        string
		setupMock   func(m *receipt.MockRecognizer)
		wantApplied bool
		wantErr     bool
		wantVendor  string
		wantDate    string
		wantTotal   int64
	}

	tests := []testCase{
		{
			name: "AppliesFields",
			setupMock: func(m *receipt.MockRecognizer) {
				m.EXPECT().
					Recognize(gomock.Any(), receipt.RecognizeRequest{
						FilePath: "receipt.jpg",
						Model:    backend.ModelClaude,
					}).
					Return(&receipt.RecognizeResult{
						Fields: receipt.Fields{
							VendorName:  "Acme Office Supply",
							Date:        "2024-03-10",
							TotalAmount: 35229,
						},
					}, nil)
			},
			wantApplied: true,
			wantVendor:  "Acme Office Supply",
			wantDate:    "2024-03-10",
			wantTotal:   35229,
		},
		{
			name: "UnparseableDateLeavesExisting",
			setupMock: func(m *receipt.MockRecognizer) {
				m.EXPECT().
					Recognize(gomock.Any(), gomock.Any()).
					Return(&receipt.RecognizeResult{
						Fields: receipt.Fields{
							VendorName: "Acme",
							Date:       "sometime last week",
						},
					}, nil)
			},
			wantApplied: true,
			wantVendor:  "Acme",
		},
		{
			name: "RecognizerError",
			setupMock: func(m *receipt.MockRecognizer) {
				m.EXPECT().
					Recognize(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("ocr failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			recognizer := receipt.NewMockRecognizer(ctrl)
			tt.setupMock(recognizer)

			draft := receipt.NewDraft()
			priorDate := draft.Date

			orch := receipt.NewOrchestrator(recognizer, draft, backend.ModelClaude)
			orch.AttachFile("receipt.jpg")

			applied, err := orch.ExtractBasic(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, applied)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantApplied, applied)
			assert.Equal(t, tt.wantVendor, draft.VendorName)

			if tt.wantDate != "" {
				assert.Equal(t, tt.wantDate, draft.Date)
			} else {
				assert.Equal(t, priorDate, draft.Date)
			}

			if tt.wantTotal > 0 {
				assert.Equal(t, tt.wantTotal, draft.TotalAmount)
			}
		})
	}
}

func TestOrchestrator_AnalyzeFull_LoadsNormalizedItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recognizer := receipt.NewMockRecognizer(ctrl)
	recognizer.EXPECT().
		Recognize(gomock.Any(), receipt.RecognizeRequest{
			FilePath:     "receipt.jpg",
			Model:        backend.ModelOpenAI,
			FullAnalysis: true,
			AutoLink:     true,
		}).
		Return(&receipt.RecognizeResult{
			Fields: receipt.Fields{VendorName: "Acme", Date: "2024-03-10", TotalAmount: 25899},
			LineItems: []receipt.LineItem{
				{Description: "Laser printer", Quantity: 1, UnitPrice: 24999, ObjectType: category.TypeAsset},
				{UnitPrice: 450, Quantity: 2},
			},
		}, nil)

	draft := receipt.NewDraft()
	orch := receipt.NewOrchestrator(recognizer, draft, backend.ModelOpenAI)
	orch.AttachFile("receipt.jpg")

	applied, err := orch.AnalyzeFull(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, applied)

	require.Len(t, draft.LineItems, 2)

	first := draft.LineItems[0]
	assert.Equal(t, 0, first.Index)
	assert.True(t, first.CreateObject)
	assert.Equal(t, int64(24999), first.TotalPrice)

	second := draft.LineItems[1]
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, "Unknown item", second.Description)
	assert.Equal(t, int64(900), second.TotalPrice)
	assert.Equal(t, category.TypeConsumable, second.ObjectType)
}

func TestOrchestrator_StaleResultDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	draft := receipt.NewDraft()

	recognizer := receipt.NewMockRecognizer(ctrl)
	orch := receipt.NewOrchestrator(recognizer, draft, backend.ModelClaude)
	orch.AttachFile("first.jpg")

	recognizer.EXPECT().
		Recognize(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, receipt.RecognizeRequest) (*receipt.RecognizeResult, error) {
			// The file is replaced while this call is in flight.
			orch.AttachFile("second.jpg")

			return &receipt.RecognizeResult{
				Fields: receipt.Fields{VendorName: "Stale Vendor"},
			}, nil
		})

	applied, err := orch.ExtractBasic(context.Background())
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Empty(t, draft.VendorName)
}

func TestOrchestrator_BasicNeverOverwritesAnalysis(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	draft := receipt.NewDraft()

	recognizer := receipt.NewMockRecognizer(ctrl)
	orch := receipt.NewOrchestrator(recognizer, draft, backend.ModelClaude)
	orch.AttachFile("receipt.jpg")

	recognizer.EXPECT().
		Recognize(gomock.Any(), gomock.Any()).
		Return(&receipt.RecognizeResult{
			Fields: receipt.Fields{VendorName: "Authoritative Vendor"},
		}, nil)

	applied, err := orch.AnalyzeFull(context.Background(), false)
	require.NoError(t, err)
	require.True(t, applied)

	// A slow basic extraction lands after the full analysis of the same
	// file; it must be dropped.
	recognizer.EXPECT().
		Recognize(gomock.Any(), gomock.Any()).
		Return(&receipt.RecognizeResult{
			Fields: receipt.Fields{VendorName: "Cheap Pass Vendor"},
		}, nil)

	applied, err = orch.ExtractBasic(context.Background())
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, "Authoritative Vendor", draft.VendorName)
}

func TestOrchestrator_ProcessAttached(t *testing.T) {
	type testCase struct {
		name        string
		setupMock   func(m *receipt.MockRecognizer)
		wantApplied bool
		wantErr     bool
	}

	tests := []testCase{
		{
			name: "BothPassesSucceed",
			setupMock: func(m *receipt.MockRecognizer) {
				basic := m.EXPECT().
					Recognize(gomock.Any(), receipt.RecognizeRequest{
						FilePath: "receipt.jpg",
						Model:    backend.ModelClaude,
					}).
					Return(&receipt.RecognizeResult{
						Fields: receipt.Fields{VendorName: "Quick"},
					}, nil)

				m.EXPECT().
					Recognize(gomock.Any(), receipt.RecognizeRequest{
						FilePath:     "receipt.jpg",
						Model:        backend.ModelClaude,
						FullAnalysis: true,
					}).
					Return(&receipt.RecognizeResult{
						Fields: receipt.Fields{VendorName: "Full"},
					}, nil).
					After(basic)
			},
			wantApplied: true,
		},
		{
			name: "ExtractionFailureStillAnalyzes",
			setupMock: func(m *receipt.MockRecognizer) {
				basic := m.EXPECT().
					Recognize(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("timeout"))

				m.EXPECT().
					Recognize(gomock.Any(), gomock.Any()).
					Return(&receipt.RecognizeResult{
						Fields: receipt.Fields{VendorName: "Full"},
					}, nil).
					After(basic)
			},
			wantApplied: true,
		},
		{
			name: "AnalysisFailure",
			setupMock: func(m *receipt.MockRecognizer) {
				basic := m.EXPECT().
					Recognize(gomock.Any(), gomock.Any()).
					Return(&receipt.RecognizeResult{}, nil)

				m.EXPECT().
					Recognize(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("analysis failed")).
					After(basic)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			recognizer := receipt.NewMockRecognizer(ctrl)
			tt.setupMock(recognizer)

			draft := receipt.NewDraft()
			orch := receipt.NewOrchestrator(recognizer, draft, backend.ModelClaude)
			orch.AttachFile("receipt.jpg")

			applied, err := orch.ProcessAttached(context.Background(), false)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantApplied, applied)
			assert.Equal(t, "Full", draft.VendorName)
		})
	}
}
