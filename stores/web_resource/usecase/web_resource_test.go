package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	bCtx "github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/domain"
	"github.com/x-xyz/marketapi/domain/mocks"
)

type webResourceSuite struct {
	suite.Suite

	ctx  bCtx.Ctx
	http *mocks.WebResourceReaderRepository
	ipfs *mocks.WebResourceReaderRepository
	data *mocks.WebResourceReaderRepository
	ar   *mocks.WebResourceReaderRepository
	uc   domain.WebResourceUseCase
}

func (s *webResourceSuite) SetupTest() {
	s.ctx = bCtx.Background()
	s.http = &mocks.WebResourceReaderRepository{}
	s.ipfs = &mocks.WebResourceReaderRepository{}
	s.data = &mocks.WebResourceReaderRepository{}
	s.ar = &mocks.WebResourceReaderRepository{}
	s.uc = NewWebResourceUseCase(&WebResourceUseCaseCfg{
		HttpReader:    s.http,
		IpfsReader:    s.ipfs,
		DataUriReader: s.data,
		ArUriReader:   s.ar,
	})
}

func (s *webResourceSuite) TearDownTest() {
	s.http.AssertExpectations(s.T())
	s.ipfs.AssertExpectations(s.T())
	s.data.AssertExpectations(s.T())
	s.ar.AssertExpectations(s.T())
}

func TestWebResourceSuite(t *testing.T) {
	suite.Run(t, new(webResourceSuite))
}

func (s *webResourceSuite) TestDispatch() {
	body := []byte(`{"name":"a"}`)
	s.http.On("Get", mock.Anything, "https://example.com/1.json").Return(body, nil).Once()
	s.http.On("Get", mock.Anything, "http://localhost/1.json").Return(body, nil).Once()
	s.ipfs.On("Get", mock.Anything, "QmToken/1.json").Return(body, nil).Twice()
	s.data.On("Get", mock.Anything, `data:application/json,{"name":"a"}`).Return(body, nil).Once()
	s.ar.On("Get", mock.Anything, "ar://tx").Return(body, nil).Once()

	for _, u := range []string{
		"https://example.com/1.json",
		"http://localhost/1.json",
		"ipfs://QmToken/1.json",
		"ipfs://ipfs/QmToken/1.json",
		`data:application/json,{"name":"a"}`,
		"ar://tx",
	} {
		got, err := s.uc.GetJson(s.ctx, u)
		s.NoError(err, u)
		s.Equal(body, got, u)
	}
}

func (s *webResourceSuite) TestUnsupportedSchema() {
	_, err := s.uc.Get(s.ctx, "ftp://example.com/1.json")
	s.ErrorIs(err, domain.ErrUnsupportedSchema)

	_, err = s.uc.Get(s.ctx, "QmToken/1.json")
	s.ErrorIs(err, domain.ErrUnsupportedSchema)
}

func (s *webResourceSuite) TestInvalidJson() {
	s.http.On("Get", mock.Anything, "https://example.com/1.json").Return([]byte("<html>"), nil).Once()

	_, err := s.uc.GetJson(s.ctx, "https://example.com/1.json")
	s.ErrorIs(err, domain.ErrInvalidJsonFormat)
}

func (s *webResourceSuite) TestGatewayFallsBackToIpfs() {
	s.http.On("Get", mock.Anything, "https://gateway.pinata.cloud/ipfs/QmToken/1.json").Return(nil, errors.New("429")).Once()
	s.ipfs.On("Get", mock.Anything, "QmToken/1.json").Return([]byte("{}"), nil).Once()

	got, err := s.uc.GetJson(s.ctx, "https://gateway.pinata.cloud/ipfs/QmToken/1.json")
	s.NoError(err)
	s.Equal([]byte("{}"), got)
}

func (s *webResourceSuite) TestNoFallbackForOtherHosts() {
	s.http.On("Get", mock.Anything, "https://example.com/1.json").Return(nil, errors.New("503")).Once()

	_, err := s.uc.GetJson(s.ctx, "https://example.com/1.json")
	s.EqualError(err, "503")
}

func Test_getIpfsUrl(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "pinata",
			url:  "https://gateway.pinata.cloud/ipfs/QmVVutd4A4i1jCQnJXR49miQdXLNLVeGwyo5wWznpgRGeH",
			want: "ipfs://QmVVutd4A4i1jCQnJXR49miQdXLNLVeGwyo5wWznpgRGeH",
		},
		{
			name: "pinata dedicated",
			url:  "https://marketplace.mypinata.cloud/ipfs/QmTeTTMFgPYULCNkfxLcJSu5KByxDWh6JA4HFZY4CQnxdS",
			want: "ipfs://QmTeTTMFgPYULCNkfxLcJSu5KByxDWh6JA4HFZY4CQnxdS",
		},
		{
			name: "ipfs.io",
			url:  "https://ipfs.io/ipfs/QmRM6jM1Agru6fgm9aae1oFukwSi5d3Kk71Lue2rYznEYm/0.png",
			want: "ipfs://QmRM6jM1Agru6fgm9aae1oFukwSi5d3Kk71Lue2rYznEYm/0.png",
		},
		{
			name: "noop",
			url:  "https://some.url",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getIpfsUrl(tt.url); got != tt.want {
				t.Errorf("getIpfsUrl() = %v, want %v", got, tt.want)
			}
		})
	}
}
