package membership

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	gymapi "gymctl/internal/api"
	"gymctl/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI behaves like the members endpoints of the server
type fakeAPI struct {
	mu      sync.Mutex
	members []models.Member

	listCalls   int32
	updateCalls int32
	deleteCalls int32

	updates []models.StatusUpdate

	listErr   error
	updateErr error
	deleteErr error

	// echo returns the updated member from UpdateStatus
	echo bool

	// block holds UpdateStatus until closed
	block chan struct{}
}

func (f *fakeAPI) ListMembers(ctx context.Context) ([]models.Member, error) {
	atomic.AddInt32(&f.listCalls, 1)
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Member, len(f.members))
	copy(out, f.members)
	return out, nil
}

func (f *fakeAPI) UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) (*models.Member, error) {
	atomic.AddInt32(&f.updateCalls, 1)
	if f.block != nil {
		<-f.block
	}
	if f.updateErr != nil {
		return nil, f.updateErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)

	status := models.Status(update.Status)
	if update.Status == "unfreeze" {
		status = models.StatusActive
	}
	for i := range f.members {
		if f.members[i].ID == id {
			f.members[i].Status = status
			if f.echo {
				m := f.members[i]
				return &m, nil
			}
			return nil, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeAPI) DeleteMember(ctx context.Context, id string) error {
	atomic.AddInt32(&f.deleteCalls, 1)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.members {
		if f.members[i].ID == id {
			f.members = append(f.members[:i], f.members[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeAPI) lastUpdate(t *testing.T) models.StatusUpdate {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.updates)
	return f.updates[len(f.updates)-1]
}

func seed() *fakeAPI {
	gold := &models.Service{ID: "s1", Name: "Gold"}
	return &fakeAPI{members: []models.Member{
		{ID: "1", FullName: "Abebe", Role: "user", Status: models.StatusActive, Service: gold, StartDate: "2024-01-10T00:00:00.000Z"},
		{ID: "2", FullName: "Kebede", Role: "user", Status: models.StatusFrozen, StartDate: "2024-03-02T00:00:00.000Z"},
		{ID: "3", FullName: "Admin", Role: "admin", Status: models.StatusActive},
		{ID: "4", FullName: "Almaz", Role: "user", Status: models.StatusPending},
	}}
}

func newLoaded(t *testing.T, api *fakeAPI, opts ...Option) *Controller {
	t.Helper()
	c := NewController(api, opts...)
	require.NoError(t, c.Refresh(context.Background()))
	return c
}

func TestRefreshKeepsOnlyMemberRole(t *testing.T) {
	c := newLoaded(t, seed())

	members := c.Members()
	require.Len(t, members, 3)
	for _, m := range members {
		assert.Equal(t, "user", m.Role)
	}
	assert.True(t, c.Loaded())
	assert.False(t, c.Loading())
}

func TestRefreshFailureKeepsPreviousList(t *testing.T) {
	api := seed()
	c := newLoaded(t, api)

	api.listErr = errors.New("boom")
	err := c.Refresh(context.Background())
	require.Error(t, err)
	assert.Len(t, c.Members(), 3)
	assert.False(t, c.Loading())
}

func TestFilter(t *testing.T) {
	c := newLoaded(t, seed())

	t.Run("SearchByName", func(t *testing.T) {
		got := c.Filter("beb", "")
		require.Len(t, got, 1)
		assert.Equal(t, "Abebe", got[0].FullName)
	})

	t.Run("SearchByPlan", func(t *testing.T) {
		got := c.Filter("GOLD", "")
		require.Len(t, got, 1)
		assert.Equal(t, "1", got[0].ID)
	})

	t.Run("SearchByStartDate", func(t *testing.T) {
		got := c.Filter("2024-03", "")
		require.Len(t, got, 1)
		assert.Equal(t, "Kebede", got[0].FullName)
	})

	t.Run("StatusIgnoresCase", func(t *testing.T) {
		got := c.Filter("", "FROZEN")
		require.Len(t, got, 1)
		assert.Equal(t, "2", got[0].ID)
	})

	t.Run("SearchAndStatus", func(t *testing.T) {
		assert.Empty(t, c.Filter("abebe", models.StatusFrozen))
	})

	t.Run("EmptyMatchesAll", func(t *testing.T) {
		assert.Len(t, c.Filter("  ", ""), 3)
	})
}

func TestActionsFollowTransitionTable(t *testing.T) {
	c := NewController(seed())

	for _, status := range models.AllStatuses {
		got := c.Actions(models.Member{ID: "x", Status: status})
		assert.Equal(t, models.ActionsFor(status), got, string(status))
		assert.Equal(t, models.ActionDelete, got[len(got)-1])
	}

	for _, odd := range []models.Status{"Freeze", "freeze", "Active", ""} {
		assert.Equal(t, []models.Action{models.ActionDelete}, c.Actions(models.Member{Status: odd}), string(odd))
	}
}

func TestApplyActivateWithBlankDateSendsNow(t *testing.T) {
	api := seed()
	c := newLoaded(t, api)

	before := time.Now()
	res, err := c.Apply(context.Background(), "4", Command{Action: models.ActionActivate})
	require.NoError(t, err)

	update := api.lastUpdate(t)
	assert.Equal(t, "active", update.Status)
	assert.Nil(t, update.FreezeDuration)

	sent, err := time.Parse(time.RFC3339Nano, update.StartDate)
	require.NoError(t, err)
	assert.WithinDuration(t, before, sent, 5*time.Second)

	assert.True(t, res.Refetched)
	require.NotNil(t, res.Member)
	assert.Equal(t, models.StatusActive, res.Member.Status)
}

func TestApplyActivateWithDate(t *testing.T) {
	api := seed()
	c := newLoaded(t, api)

	_, err := c.Apply(context.Background(), "4", Command{Action: models.ActionActivate, EffectiveDate: "2024-06-01"})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T00:00:00.000Z", api.lastUpdate(t).StartDate)

	_, err = c.Apply(context.Background(), "4", Command{Action: models.ActionActivate, EffectiveDate: "June 1st"})
	assert.ErrorIs(t, err, models.ErrInvalidDate)
}

func TestApplyFreezeRefetchesAndShowsFrozen(t *testing.T) {
	api := seed()
	c := newLoaded(t, api)
	listCalls := atomic.LoadInt32(&api.listCalls)

	res, err := c.Apply(context.Background(), "1", Command{Action: models.ActionFreeze, FreezeDays: "7"})
	require.NoError(t, err)

	update := api.lastUpdate(t)
	assert.Equal(t, "frozen", update.Status)
	require.NotNil(t, update.FreezeDuration)
	assert.Equal(t, 7, *update.FreezeDuration)

	assert.Equal(t, listCalls+1, atomic.LoadInt32(&api.listCalls))
	assert.True(t, res.Refetched)

	m, err := c.Find("1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFrozen, m.Status)
}

func TestApplyFreezeZeroIsSubmitted(t *testing.T) {
	api := seed()
	c := newLoaded(t, api)

	_, err := c.Apply(context.Background(), "1", Command{Action: models.ActionFreeze, FreezeDays: "0"})
	require.NoError(t, err)

	update := api.lastUpdate(t)
	require.NotNil(t, update.FreezeDuration)
	assert.Equal(t, 0, *update.FreezeDuration)
}

func TestApplyFreezeRejectsNonInteger(t *testing.T) {
	api := seed()
	c := newLoaded(t, api)

	_, err := c.Apply(context.Background(), "1", Command{Action: models.ActionFreeze, FreezeDays: "a week"})
	assert.ErrorIs(t, err, models.ErrInvalidFreezeDuration)
	assert.Equal(t, int32(0), atomic.LoadInt32(&api.updateCalls))
}

func TestApplyUnfreezeSendsUnfreeze(t *testing.T) {
	api := seed()
	c := newLoaded(t, api)

	res, err := c.Apply(context.Background(), "2", Command{Action: models.ActionUnfreeze})
	require.NoError(t, err)
	assert.Equal(t, "unfreeze", api.lastUpdate(t).Status)
	assert.Equal(t, models.StatusActive, res.Member.Status)
}

func TestApplyPatchPolicy(t *testing.T) {
	t.Run("UsesReturnedEntity", func(t *testing.T) {
		api := seed()
		api.echo = true
		c := newLoaded(t, api, WithPolicy(PolicyPatch))
		listCalls := atomic.LoadInt32(&api.listCalls)

		res, err := c.Apply(context.Background(), "1", Command{Action: models.ActionDormant})
		require.NoError(t, err)
		assert.False(t, res.Refetched)
		assert.Equal(t, listCalls, atomic.LoadInt32(&api.listCalls))

		m, err := c.Find("1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusDormant, m.Status)
	})

	t.Run("FallsBackToRefetch", func(t *testing.T) {
		api := seed()
		c := newLoaded(t, api, WithPolicy(PolicyPatch))

		res, err := c.Apply(context.Background(), "1", Command{Action: models.ActionDeactivate})
		require.NoError(t, err)
		assert.True(t, res.Refetched)
		assert.Equal(t, models.StatusInactive, res.Member.Status)
	})
}

func TestFailedUpdateLeavesListUnchanged(t *testing.T) {
	api := seed()
	c := newLoaded(t, api)
	before := c.Members()
	listCalls := atomic.LoadInt32(&api.listCalls)

	api.updateErr = errors.New("server said no")
	_, err := c.UpdateStatus(context.Background(), "1", "frozen", "", nil)
	require.Error(t, err)

	assert.Equal(t, before, c.Members())
	assert.Equal(t, listCalls, atomic.LoadInt32(&api.listCalls))
	assert.False(t, c.Loading())
}

func TestApplyUnknownAction(t *testing.T) {
	c := newLoaded(t, seed())
	_, err := c.Apply(context.Background(), "1", Command{Action: "Teleport"})
	assert.ErrorIs(t, err, models.ErrUnknownAction)
}

func TestDeleteRemovesExactlyThatMember(t *testing.T) {
	api := seed()
	c := newLoaded(t, api)

	require.NoError(t, c.Delete(context.Background(), "2"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.deleteCalls))

	ids := make([]string, 0)
	for _, m := range c.Members() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"1", "4"}, ids)

	_, err := c.Find("2")
	assert.ErrorIs(t, err, models.ErrMemberNotFound)
}

func TestDeleteFailureKeepsMember(t *testing.T) {
	api := seed()
	c := newLoaded(t, api)
	api.deleteErr = errors.New("forbidden")

	require.Error(t, c.Delete(context.Background(), "2"))
	_, err := c.Find("2")
	assert.NoError(t, err)
}

func TestConcurrentIdenticalUpdatesShareOneRequest(t *testing.T) {
	api := seed()
	api.block = make(chan struct{})
	c := newLoaded(t, api)

	const callers = 5
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Apply(context.Background(), "1", Command{Action: models.ActionDormant})
			errs <- err
		}()
	}

	// let every caller reach the in-flight request before it completes
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&api.updateCalls) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(api.block)

	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.updateCalls))
}

func TestUpdatesWithDifferentInputsAreNotJoined(t *testing.T) {
	api := seed()
	api.block = make(chan struct{})
	c := newLoaded(t, api)

	var wg sync.WaitGroup
	for _, date := range []string{"2024-06-01", "2024-07-01"} {
		wg.Add(1)
		go func(date string) {
			defer wg.Done()
			_, err := c.Apply(context.Background(), "4", Command{Action: models.ActionActivate, EffectiveDate: date})
			assert.NoError(t, err)
		}(date)
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&api.updateCalls) == 2
	}, time.Second, 5*time.Millisecond)
	close(api.block)
	wg.Wait()

	dates := []string{api.updates[0].StartDate, api.updates[1].StartDate}
	assert.ElementsMatch(t, []string{"2024-06-01T00:00:00.000Z", "2024-07-01T00:00:00.000Z"}, dates)
}

func TestCancelledCallerDoesNotFailJoiner(t *testing.T) {
	api := seed()
	api.block = make(chan struct{})
	c := newLoaded(t, api)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Apply(firstCtx, "1", Command{Action: models.ActionDormant})
		firstErr <- err
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&api.updateCalls) == 1
	}, time.Second, 5*time.Millisecond)

	secondErr := make(chan error, 1)
	go func() {
		_, err := c.Apply(context.Background(), "1", Command{Action: models.ActionDormant})
		secondErr <- err
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(api.block)
	assert.NoError(t, <-secondErr)
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.updateCalls))

	m, err := c.Find("1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDormant, m.Status)
}

func TestRefetchAfterPlainTextUpdateResponse(t *testing.T) {
	var mu sync.Mutex
	status := "active"
	var puts, lists int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			lists++
			fmt.Fprintf(w, `{"data":{"users":[{"id":"1","fullName":"Abebe","role":"user","status":%q}]}}`, status)
		case http.MethodPut:
			puts++
			status = "frozen"
			_, _ = w.Write([]byte("Status updated"))
		}
	}))
	defer server.Close()

	c := NewController(gymapi.NewClient(server.URL, nil))
	require.NoError(t, c.Refresh(context.Background()))

	res, err := c.Apply(context.Background(), "1", Command{Action: models.ActionFreeze, FreezeDays: "7"})
	require.NoError(t, err)
	assert.True(t, res.Refetched)

	mu.Lock()
	assert.Equal(t, 1, puts)
	assert.Equal(t, 2, lists)
	mu.Unlock()

	m, err := c.Find("1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFrozen, m.Status)
}

func TestActivationDate(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 123_000_000, time.FixedZone("EAT", 3*60*60))

	got, err := ActivationDate("", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-06T04:08:09.123Z", got)

	got, err = ActivationDate("2024-05-10T10:00:00+03:00", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10T07:00:00.000Z", got)
}

func TestParseFreezeDays(t *testing.T) {
	for input, want := range map[string]int{"7": 7, " 0 ": 0, "-3": -3} {
		got, err := ParseFreezeDays(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"", "1.5", "seven"} {
		_, err := ParseFreezeDays(input)
		assert.ErrorIs(t, err, models.ErrInvalidFreezeDuration, input)
	}
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus([]models.Member{
		{Status: models.StatusActive},
		{Status: models.StatusActive},
		{Status: models.StatusFrozen},
		{Status: "Freeze"},
	})

	byStatus := map[models.Status]int{}
	for _, sc := range counts {
		byStatus[sc.Status] = sc.Count
	}
	assert.Equal(t, 2, byStatus[models.StatusActive])
	assert.Equal(t, 1, byStatus[models.StatusFrozen])
	assert.Equal(t, 0, byStatus[models.StatusDormant])
	assert.Equal(t, 1, byStatus["Freeze"])
	assert.Equal(t, models.Status("Freeze"), counts[len(counts)-1].Status)
}

func TestFilterAttendance(t *testing.T) {
	records := []models.AttendanceRecord{{FullName: "Abebe"}, {FullName: "Kebede"}, {FullName: "Almaz"}}
	got := FilterAttendance(records, "EBE")
	assert.Len(t, got, 2)
	assert.Len(t, FilterAttendance(records, ""), 3)
}
