package usecase

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	bCtx "github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/domain"
	"github.com/x-xyz/marketapi/domain/listing"
	"github.com/x-xyz/marketapi/domain/listing/mocks"
)

// funcFetcher lets a test decide per call how a cycle behaves
type funcFetcher struct {
	mu    sync.Mutex
	calls int
	fn    func(call int, c bCtx.Ctx, session *domain.Session) listing.Result
}

func (f *funcFetcher) FetchListings(c bCtx.Ctx, session *domain.Session) listing.Result {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.fn(call, c, session)
}

func (f *funcFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func okResult(cycleId string, ids ...int64) listing.Result {
	res := listing.Result{Status: listing.StatusOk, CycleId: cycleId, Listings: []listing.Listing{}}
	for _, id := range ids {
		res.Listings = append(res.Listings, listing.Listing{TokenId: big.NewInt(id), Price: "1.0"})
	}
	return res
}

type viewSuite struct {
	suite.Suite

	ctx      bCtx.Ctx
	now      time.Time
	session  *domain.Session
	fetcher  *mocks.Fetcher
	contract *mocks.MarketplaceContract
}

func (s *viewSuite) SetupTest() {
	s.ctx = bCtx.Background()
	s.now = fixedNow
	s.session = &domain.Session{Id: "s1", Address: seller, ExpiresAt: fixedNow.Add(time.Hour)}
	s.fetcher = &mocks.Fetcher{}
	s.contract = &mocks.MarketplaceContract{}
}

func (s *viewSuite) TearDownTest() {
	s.fetcher.AssertExpectations(s.T())
	s.contract.AssertExpectations(s.T())
}

func TestViewSuite(t *testing.T) {
	suite.Run(t, new(viewSuite))
}

func (s *viewSuite) newView(fetcher listing.Fetcher) listing.ViewUseCase {
	return NewView(&ViewCfg{
		Fetcher:     fetcher,
		Contract:    s.contract,
		SnapshotTtl: time.Minute,
		Now:         func() time.Time { return s.now },
	})
}

func (s *viewSuite) TestLoadNoSession() {
	s.fetcher.On("FetchListings", mock.Anything, (*domain.Session)(nil)).Return(listing.Result{
		Status:   listing.StatusNotConnected,
		Listings: []listing.Listing{},
		Err:      domain.ErrNoSession,
	}).Once()

	res := s.newView(s.fetcher).Load(s.ctx, nil)
	s.Equal(listing.StatusNotConnected, res.Status)
}

func (s *viewSuite) TestLoadServesSnapshot() {
	s.fetcher.On("FetchListings", mock.Anything, s.session).Return(okResult("c1", 1)).Once()
	v := s.newView(s.fetcher)

	first := v.Load(s.ctx, s.session)
	s.now = s.now.Add(30 * time.Second)
	upper := &domain.Session{Id: "s2", Address: domain.Address(strings.ToUpper(string(seller))), ExpiresAt: s.session.ExpiresAt}
	second := v.Load(s.ctx, upper)

	s.Equal("c1", first.CycleId)
	s.Equal(first, second)
}

func (s *viewSuite) TestLoadRefreshesExpiredSnapshot() {
	s.fetcher.On("FetchListings", mock.Anything, s.session).Return(okResult("c1", 1)).Once()
	s.fetcher.On("FetchListings", mock.Anything, s.session).Return(okResult("c2", 1, 2)).Once()
	v := s.newView(s.fetcher)

	s.Equal("c1", v.Load(s.ctx, s.session).CycleId)
	s.now = s.now.Add(time.Minute)
	res := v.Load(s.ctx, s.session)
	s.Equal("c2", res.CycleId)
	s.Len(res.Listings, 2)
}

func (s *viewSuite) TestRefreshAlwaysFetches() {
	s.fetcher.On("FetchListings", mock.Anything, s.session).Return(okResult("c1", 1)).Once()
	s.fetcher.On("FetchListings", mock.Anything, s.session).Return(okResult("c2", 2)).Once()
	v := s.newView(s.fetcher)

	s.Equal("c1", v.Refresh(s.ctx, s.session).CycleId)
	s.Equal("c2", v.Refresh(s.ctx, s.session).CycleId)
	s.Equal("c2", v.Load(s.ctx, s.session).CycleId)
}

func (s *viewSuite) TestCanceledResultKeepsSnapshot() {
	s.fetcher.On("FetchListings", mock.Anything, s.session).Return(okResult("c1", 1)).Once()
	s.fetcher.On("FetchListings", mock.Anything, s.session).Return(listing.Result{
		Status:   listing.StatusCanceled,
		CycleId:  "c2",
		Listings: []listing.Listing{},
		Err:      context.Canceled,
	}).Once()
	v := s.newView(s.fetcher)

	v.Refresh(s.ctx, s.session)
	s.Equal(listing.StatusCanceled, v.Refresh(s.ctx, s.session).Status)
	s.Equal("c1", v.Load(s.ctx, s.session).CycleId)
}

func (s *viewSuite) TestFailedResultIsPublished() {
	s.fetcher.On("FetchListings", mock.Anything, s.session).Return(okResult("c1", 1)).Once()
	s.fetcher.On("FetchListings", mock.Anything, s.session).Return(listing.Result{
		Status:   listing.StatusQueryFailed,
		CycleId:  "c2",
		Listings: []listing.Listing{},
		Err:      errors.New("rpc down"),
	}).Once()
	v := s.newView(s.fetcher)

	v.Refresh(s.ctx, s.session)
	v.Refresh(s.ctx, s.session)
	res := v.Load(s.ctx, s.session)
	s.Equal(listing.StatusQueryFailed, res.Status)
	s.Empty(res.Listings)
}

func (s *viewSuite) TestStaleCycleNeverOverwritesNewer() {
	started := make(chan struct{})
	release := make(chan struct{})
	f := &funcFetcher{fn: func(call int, c bCtx.Ctx, session *domain.Session) listing.Result {
		if call == 1 {
			close(started)
			// ignores cancellation and completes late
			<-release
			return okResult("old", 1)
		}
		return okResult("new", 1, 2)
	}}
	v := s.newView(f)

	oldCh := make(chan listing.Result, 1)
	go func() {
		oldCh <- v.Refresh(s.ctx, s.session)
	}()
	<-started

	newer := v.Refresh(s.ctx, s.session)
	s.Equal("new", newer.CycleId)

	close(release)
	old := <-oldCh
	s.Equal(listing.StatusCanceled, old.Status)
	s.Empty(old.Listings)

	res := v.Load(s.ctx, s.session)
	s.Equal("new", res.CycleId)
	s.Len(res.Listings, 2)
	s.Equal(2, f.Calls())
}

func (s *viewSuite) TestNewCycleCancelsInflight() {
	started := make(chan struct{})
	f := &funcFetcher{fn: func(call int, c bCtx.Ctx, session *domain.Session) listing.Result {
		if call == 1 {
			close(started)
			<-c.Done()
			return listing.Result{Status: listing.StatusCanceled, Listings: []listing.Listing{}, Err: c.Err()}
		}
		return okResult("new", 1)
	}}
	v := s.newView(f)

	oldCh := make(chan listing.Result, 1)
	go func() {
		oldCh <- v.Refresh(s.ctx, s.session)
	}()
	<-started

	s.Equal("new", v.Refresh(s.ctx, s.session).CycleId)
	select {
	case old := <-oldCh:
		s.Equal(listing.StatusCanceled, old.Status)
	case <-time.After(time.Second):
		s.Fail("in-flight cycle was not canceled")
	}
}

func (s *viewSuite) TestForget() {
	s.fetcher.On("FetchListings", mock.Anything, s.session).Return(okResult("c1", 1)).Once()
	s.fetcher.On("FetchListings", mock.Anything, s.session).Return(okResult("c2", 1)).Once()
	v := s.newView(s.fetcher)

	v.Load(s.ctx, s.session)
	v.Forget(domain.Address(strings.ToUpper(string(seller))))
	s.Equal("c2", v.Load(s.ctx, s.session).CycleId)
}

func (s *viewSuite) TestRefreshEvictsIdleSnapshots() {
	other := &domain.Session{Id: "s2", Address: owner, ExpiresAt: s.session.ExpiresAt}
	s.fetcher.On("FetchListings", mock.Anything, s.session).Return(okResult("c1", 1)).Once()
	s.fetcher.On("FetchListings", mock.Anything, other).Return(okResult("c2", 1)).Twice()
	v := s.newView(s.fetcher)
	impl := v.(*viewImpl)

	v.Refresh(s.ctx, s.session)
	s.now = s.now.Add(2 * time.Minute)
	v.Refresh(s.ctx, other)
	s.Len(impl.entries, 2)

	s.now = s.now.Add(3 * time.Minute)
	v.Refresh(s.ctx, other)
	s.Len(impl.entries, 1)
	s.Contains(impl.entries, owner.ToLower())
}

func (s *viewSuite) TestForgetCancelsInflight() {
	started := make(chan struct{})
	f := &funcFetcher{fn: func(call int, c bCtx.Ctx, session *domain.Session) listing.Result {
		close(started)
		<-c.Done()
		return okResult("late", 1)
	}}
	v := s.newView(f)

	resCh := make(chan listing.Result, 1)
	go func() {
		resCh <- v.Refresh(s.ctx, s.session)
	}()
	<-started
	v.Forget(seller)

	select {
	case res := <-resCh:
		s.Equal(listing.StatusCanceled, res.Status)
	case <-time.After(time.Second):
		s.Fail("forget did not cancel the cycle")
	}
}

func (s *viewSuite) TestPanicIsQueryFailed() {
	f := &funcFetcher{fn: func(int, bCtx.Ctx, *domain.Session) listing.Result {
		panic("boom")
	}}

	res := s.newView(f).Refresh(s.ctx, s.session)
	s.Equal(listing.StatusQueryFailed, res.Status)
	s.Error(res.Err)
	s.Empty(res.Listings)
}

func (s *viewSuite) TestSummary() {
	s.contract.On("GetListPrice", mock.Anything).Return(big.NewInt(10000000000000000), nil).Once()
	s.contract.On("GetCurrentToken", mock.Anything).Return(big.NewInt(42), nil).Once()
	s.contract.On("ChainId").Return(domain.ChainId(11155111)).Once()
	s.contract.On("Address").Return(domain.Address("0x1f8c2a0b3c5e1d2f4a6b8c0d2e4f6a8b0c2d4e6f")).Once()

	sum, err := s.newView(s.fetcher).Summary(s.ctx)
	s.Require().NoError(err)
	s.Equal(&listing.Summary{
		ChainId:      11155111,
		Address:      "0x1f8c2a0b3c5e1d2f4a6b8c0d2e4f6a8b0c2d4e6f",
		ListPrice:    "0.01",
		CurrentToken: big.NewInt(42),
	}, sum)
}

func (s *viewSuite) TestSummaryContractError() {
	s.contract.On("GetListPrice", mock.Anything).Return(nil, errors.New("execution reverted")).Once()

	_, err := s.newView(s.fetcher).Summary(s.ctx)
	s.EqualError(err, "execution reverted")
}
