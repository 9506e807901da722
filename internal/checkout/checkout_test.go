package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"drop_checkout/internal/model"
	"drop_checkout/internal/signature"
	"drop_checkout/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

// fakeStore is an in-memory OrderStore with the same CAS semantics as the
// real adapter, plus failure toggles.
type fakeStore struct {
	mu     sync.Mutex
	orders map[string]*model.Order

	failCreate bool
	failFind   bool
	failWrite  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: map[string]*model.Order{}}
}

func (f *fakeStore) CreateConfirmedOrder(_ context.Context, order *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("store unavailable")
	}
	if _, ok := f.orders[order.RazorpayOrderID]; ok {
		return errors.New("UNIQUE constraint failed")
	}
	cp := *order
	f.orders[order.RazorpayOrderID] = &cp
	return nil
}

func (f *fakeStore) FindByGatewayOrderID(_ context.Context, orderID string) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFind {
		return nil, errors.New("store unavailable")
	}
	order, ok := f.orders[orderID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (f *fakeStore) SetStoryIfAbsent(_ context.Context, orderID, story string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite {
		return false, errors.New("store unavailable")
	}
	order, ok := f.orders[orderID]
	if !ok || order.StorySubmitted {
		return false, nil
	}
	order.Story = story
	order.StorySubmitted = true
	return true, nil
}

type fakeNotifier struct {
	mu            sync.Mutex
	confirmations int
	stories       int
	fail          bool
}

func (f *fakeNotifier) SendOrderConfirmation(context.Context, *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations++
	if f.fail {
		return errors.New("mail api down")
	}
	return nil
}

func (f *fakeNotifier) SendStoryNotification(context.Context, *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stories++
	if f.fail {
		return errors.New("mail api down")
	}
	return nil
}

func validConfirm(orderID, paymentID string) ConfirmInput {
	return ConfirmInput{
		PaymentID:   paymentID,
		OrderID:     orderID,
		Signature:   signature.Compute(testSecret, orderID, paymentID),
		AmountPaise: 149900,
		PaymentType: "PREPAID",
		Edition:     "first-edition",
		Name:        "Asha Rao",
		Email:       "asha@example.com",
		Phone:       "+919800000001",
		Address:     "14 MG Road, Bengaluru",
	}
}

func TestConfirmPaymentHappyPath(t *testing.T) {
	fs := newFakeStore()
	fn := &fakeNotifier{}
	svc := NewService(fs, fn, testSecret, nil)

	res := svc.ConfirmPayment(context.Background(), validConfirm("order_1", "pay_1"))
	assert.Equal(t, ConfirmOK, res.Outcome)

	order, err := fs.FindByGatewayOrderID(context.Background(), "order_1")
	require.NoError(t, err)
	assert.Equal(t, "pay_1", order.RazorpayPaymentID)
	assert.Equal(t, model.PaymentPrepaid, order.PaymentType)
	assert.Equal(t, int64(149900), order.Amount)
	assert.False(t, order.StorySubmitted)
	assert.Equal(t, 1, fn.confirmations)
}

func TestConfirmPaymentNormalizesPaymentType(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs, &fakeNotifier{}, testSecret, nil)

	in := validConfirm("order_2", "pay_2")
	in.PaymentType = "prepaid; DROP TABLE orders"
	res := svc.ConfirmPayment(context.Background(), in)
	require.Equal(t, ConfirmOK, res.Outcome)

	order, err := fs.FindByGatewayOrderID(context.Background(), "order_2")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCODAdvance, order.PaymentType)
}

func TestConfirmPaymentRejectsBadSignature(t *testing.T) {
	fs := newFakeStore()
	fn := &fakeNotifier{}
	svc := NewService(fs, fn, testSecret, nil)

	in := validConfirm("order_3", "pay_3")
	in.Signature = signature.Compute("wrong_secret", "order_3", "pay_3")

	// Repeated forgeries must never leave a row behind.
	for i := 0; i < 3; i++ {
		res := svc.ConfirmPayment(context.Background(), in)
		assert.Equal(t, ConfirmInvalidSignature, res.Outcome)
	}
	_, err := fs.FindByGatewayOrderID(context.Background(), "order_3")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Zero(t, fn.confirmations)
}

func TestConfirmPaymentValidation(t *testing.T) {
	fs := newFakeStore()
	fn := &fakeNotifier{}
	svc := NewService(fs, fn, testSecret, nil)

	mutations := map[string]func(*ConfirmInput){
		"paymentId": func(in *ConfirmInput) { in.PaymentID = "" },
		"orderId":   func(in *ConfirmInput) { in.OrderID = "" },
		"signature": func(in *ConfirmInput) { in.Signature = "" },
		"name":      func(in *ConfirmInput) { in.Name = "" },
		"phone":     func(in *ConfirmInput) { in.Phone = "" },
		"address":   func(in *ConfirmInput) { in.Address = "" },
	}
	for field, mutate := range mutations {
		in := validConfirm("order_4", "pay_4")
		mutate(&in)
		res := svc.ConfirmPayment(context.Background(), in)
		assert.Equal(t, ConfirmInvalidInput, res.Outcome, "missing %s", field)
		assert.NotEmpty(t, res.Message)
	}
	_, err := fs.FindByGatewayOrderID(context.Background(), "order_4")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Zero(t, fn.confirmations)
}

func TestConfirmPaymentSucceedsThroughStoreOutage(t *testing.T) {
	fs := newFakeStore()
	fs.failCreate = true
	fn := &fakeNotifier{}
	svc := NewService(fs, fn, testSecret, nil)

	res := svc.ConfirmPayment(context.Background(), validConfirm("order_5", "pay_5"))
	assert.Equal(t, ConfirmOK, res.Outcome)
	// Email still attempted with the in-memory order.
	assert.Equal(t, 1, fn.confirmations)
}

func TestConfirmPaymentSucceedsThroughMailOutage(t *testing.T) {
	fs := newFakeStore()
	fn := &fakeNotifier{fail: true}
	svc := NewService(fs, fn, testSecret, nil)

	res := svc.ConfirmPayment(context.Background(), validConfirm("order_6", "pay_6"))
	assert.Equal(t, ConfirmOK, res.Outcome)
}

func confirmOrder(t *testing.T, svc *Service, orderID string) {
	t.Helper()
	res := svc.ConfirmPayment(context.Background(), validConfirm(orderID, "pay_"+orderID))
	require.Equal(t, ConfirmOK, res.Outcome)
}

func TestSubmitStoryHappyPath(t *testing.T) {
	fs := newFakeStore()
	fn := &fakeNotifier{}
	svc := NewService(fs, fn, testSecret, nil)
	confirmOrder(t, svc, "order_s1")

	res := svc.SubmitStory(context.Background(), "order_s1", "bought this for my dad")
	assert.Equal(t, StoryOK, res.Outcome)

	order, err := fs.FindByGatewayOrderID(context.Background(), "order_s1")
	require.NoError(t, err)
	assert.True(t, order.StorySubmitted)
	assert.Equal(t, "bought this for my dad", order.Story)
	assert.Equal(t, 1, fn.stories)
}

func TestSubmitStoryValidation(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeNotifier{}, testSecret, nil)

	res := svc.SubmitStory(context.Background(), "", "a story")
	assert.Equal(t, StoryInvalidInput, res.Outcome)

	res = svc.SubmitStory(context.Background(), "order_x", "   \n\t")
	assert.Equal(t, StoryInvalidInput, res.Outcome)
}

func TestSubmitStoryUnknownOrder(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeNotifier{}, testSecret, nil)

	res := svc.SubmitStory(context.Background(), "order_missing", "a story")
	assert.Equal(t, StoryOrderNotFound, res.Outcome)
}

func TestSubmitStoryIdempotentResubmission(t *testing.T) {
	fs := newFakeStore()
	fn := &fakeNotifier{}
	svc := NewService(fs, fn, testSecret, nil)
	confirmOrder(t, svc, "order_s2")

	require.Equal(t, StoryOK, svc.SubmitStory(context.Background(), "order_s2", "original").Outcome)
	require.Equal(t, StoryOK, svc.SubmitStory(context.Background(), "order_s2", "replacement").Outcome)

	order, err := fs.FindByGatewayOrderID(context.Background(), "order_s2")
	require.NoError(t, err)
	assert.Equal(t, "original", order.Story)
	// No re-email on resubmission.
	assert.Equal(t, 1, fn.stories)
}

func TestSubmitStoryStoreErrorSurfaces(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs, &fakeNotifier{}, testSecret, nil)
	confirmOrder(t, svc, "order_s3")

	fs.failWrite = true
	res := svc.SubmitStory(context.Background(), "order_s3", "a story")
	assert.Equal(t, StoryStoreError, res.Outcome)

	fs.failWrite = false
	fs.failFind = true
	res = svc.SubmitStory(context.Background(), "order_s3", "a story")
	assert.Equal(t, StoryStoreError, res.Outcome)
}

func TestSubmitStoryCommittedBeforeMailOutage(t *testing.T) {
	fs := newFakeStore()
	fn := &fakeNotifier{fail: true}
	svc := NewService(fs, fn, testSecret, nil)
	confirmOrder(t, svc, "order_s4")

	res := svc.SubmitStory(context.Background(), "order_s4", "a story")
	assert.Equal(t, StoryOK, res.Outcome)

	order, err := fs.FindByGatewayOrderID(context.Background(), "order_s4")
	require.NoError(t, err)
	assert.True(t, order.StorySubmitted)
}

func TestSubmitStoryConcurrentAtMostOnce(t *testing.T) {
	fs := newFakeStore()
	fn := &fakeNotifier{}
	svc := NewService(fs, fn, testSecret, nil)
	confirmOrder(t, svc, "order_race")

	const n = 16
	var wg sync.WaitGroup
	results := make([]StoryResult, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = svc.SubmitStory(context.Background(), "order_race", fmt.Sprintf("story-%d", idx))
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		assert.Equal(t, StoryOK, res.Outcome, "submission %d", i)
	}

	order, err := fs.FindByGatewayOrderID(context.Background(), "order_race")
	require.NoError(t, err)
	require.True(t, order.StorySubmitted)
	// The stored story is exactly one of the inputs, never an interleaving.
	found := false
	for i := 0; i < n; i++ {
		if order.Story == fmt.Sprintf("story-%d", i) {
			found = true
			break
		}
	}
	assert.True(t, found, "stored story %q is not one of the submitted inputs", order.Story)
	assert.Equal(t, 1, fn.stories, "exactly one winner emails")
}
