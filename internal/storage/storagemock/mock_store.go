// Package storagemock provides a gomock-generated-style double for
// storage.Store, used by the lifecycle, reconciler and wallet-poller tests.
// Hand-maintained in the shape mockgen produces (NewMockStore + EXPECT()).
package storagemock

import (
	"context"
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"

	"github.com/xrplwallet/indexer/internal/domain"
	"github.com/xrplwallet/indexer/internal/storage"
)

// MockStore is a mock of the storage.Store interface.
type MockStore struct {
	ctrl     *gomock.Controller
	recorder *MockStoreMockRecorder
}

// MockStoreMockRecorder is the mock recorder for MockStore.
type MockStoreMockRecorder struct {
	mock *MockStore
}

// NewMockStore creates a new mock instance.
func NewMockStore(ctrl *gomock.Controller) *MockStore {
	mock := &MockStore{ctrl: ctrl}
	mock.recorder = &MockStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStore) EXPECT() *MockStoreMockRecorder {
	return m.recorder
}

func (m *MockStore) GetUsers(ctx context.Context) ([]domain.UserConfig, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetUsers", ctx)
	ret0, _ := ret[0].([]domain.UserConfig)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockStoreMockRecorder) GetUsers(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetUsers", reflect.TypeOf((*MockStore)(nil).GetUsers), ctx)
}

func (m *MockStore) PutUsers(ctx context.Context, users []domain.UserConfig) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PutUsers", ctx, users)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockStoreMockRecorder) PutUsers(ctx, users interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PutUsers", reflect.TypeOf((*MockStore)(nil).PutUsers), ctx, users)
}

func (m *MockStore) PutTransaction(ctx context.Context, tx domain.Transaction, userID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PutTransaction", ctx, tx, userID)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockStoreMockRecorder) PutTransaction(ctx, tx, userID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PutTransaction", reflect.TypeOf((*MockStore)(nil).PutTransaction), ctx, tx, userID)
}

func (m *MockStore) GetLatestLedgerIndex(ctx context.Context, userID, wallet string) (int64, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetLatestLedgerIndex", ctx, userID, wallet)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

func (mr *MockStoreMockRecorder) GetLatestLedgerIndex(ctx, userID, wallet interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetLatestLedgerIndex", reflect.TypeOf((*MockStore)(nil).GetLatestLedgerIndex), ctx, userID, wallet)
}

func (m *MockStore) PutOpenOffer(ctx context.Context, offer domain.Offer) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PutOpenOffer", ctx, offer)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockStoreMockRecorder) PutOpenOffer(ctx, offer interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PutOpenOffer", reflect.TypeOf((*MockStore)(nil).PutOpenOffer), ctx, offer)
}

func (m *MockStore) UpdateOpenOffer(ctx context.Context, hash string, patch storage.OfferPatch) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateOpenOffer", ctx, hash, patch)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockStoreMockRecorder) UpdateOpenOffer(ctx, hash, patch interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateOpenOffer", reflect.TypeOf((*MockStore)(nil).UpdateOpenOffer), ctx, hash, patch)
}

func (m *MockStore) DeleteOpenOffer(ctx context.Context, hash string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteOpenOffer", ctx, hash)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockStoreMockRecorder) DeleteOpenOffer(ctx, hash interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteOpenOffer", reflect.TypeOf((*MockStore)(nil).DeleteOpenOffer), ctx, hash)
}

func (m *MockStore) GetOpenOfferBySequence(ctx context.Context, account string, sequence uint32) (domain.Offer, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetOpenOfferBySequence", ctx, account, sequence)
	ret0, _ := ret[0].(domain.Offer)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockStoreMockRecorder) GetOpenOfferBySequence(ctx, account, sequence interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetOpenOfferBySequence", reflect.TypeOf((*MockStore)(nil).GetOpenOfferBySequence), ctx, account, sequence)
}

func (m *MockStore) ListOpenOffers(ctx context.Context) ([]domain.Offer, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListOpenOffers", ctx)
	ret0, _ := ret[0].([]domain.Offer)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockStoreMockRecorder) ListOpenOffers(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListOpenOffers", reflect.TypeOf((*MockStore)(nil).ListOpenOffers), ctx)
}

func (m *MockStore) PutFilledOffer(ctx context.Context, offer domain.Offer) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PutFilledOffer", ctx, offer)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockStoreMockRecorder) PutFilledOffer(ctx, offer interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PutFilledOffer", reflect.TypeOf((*MockStore)(nil).PutFilledOffer), ctx, offer)
}

func (m *MockStore) PutCanceledOffer(ctx context.Context, offer domain.Offer) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PutCanceledOffer", ctx, offer)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockStoreMockRecorder) PutCanceledOffer(ctx, offer interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PutCanceledOffer", reflect.TypeOf((*MockStore)(nil).PutCanceledOffer), ctx, offer)
}

func (m *MockStore) PutDepositWithdrawal(ctx context.Context, record domain.DepositWithdrawal) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PutDepositWithdrawal", ctx, record)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockStoreMockRecorder) PutDepositWithdrawal(ctx, record interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PutDepositWithdrawal", reflect.TypeOf((*MockStore)(nil).PutDepositWithdrawal), ctx, record)
}

func (m *MockStore) PutTrade(ctx context.Context, trade domain.Trade) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PutTrade", ctx, trade)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockStoreMockRecorder) PutTrade(ctx, trade interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PutTrade", reflect.TypeOf((*MockStore)(nil).PutTrade), ctx, trade)
}

func (m *MockStore) ListTrades(ctx context.Context, relatedOfferHash string) ([]domain.Trade, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListTrades", ctx, relatedOfferHash)
	ret0, _ := ret[0].([]domain.Trade)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockStoreMockRecorder) ListTrades(ctx, relatedOfferHash interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListTrades", reflect.TypeOf((*MockStore)(nil).ListTrades), ctx, relatedOfferHash)
}

func (m *MockStore) Close(ctx context.Context) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close", ctx)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockStoreMockRecorder) Close(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockStore)(nil).Close), ctx)
}

var _ storage.Store = (*MockStore)(nil)
