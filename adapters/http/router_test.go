package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/folio/adapters/persistence"
	authUC "github.com/khoahotran/folio/internal/application/usecase/auth"
	portfolioUC "github.com/khoahotran/folio/internal/application/usecase/portfolio"
	shareUC "github.com/khoahotran/folio/internal/application/usecase/share"
	"github.com/khoahotran/folio/pkg/auth"
	"github.com/khoahotran/folio/pkg/logger"
)

type RouterTestSuite struct {
	suite.Suite
	router *gin.Engine
	token  string
	userID string
}

func (s *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(RegisterValidators())

	log := logger.NewNop()
	portfolioRepo := persistence.NewMemoryPortfolioRepo(0)
	userRepo := persistence.NewMemoryUserRepo()
	cache := persistence.NewMemoryListingCache(time.Minute)
	sessions := persistence.NewMemorySessionStore()
	jwtSvc := auth.NewJWTService("router-test-secret", time.Hour)

	h := Handlers{
		Auth: NewAuthHandler(
			authUC.NewSignUpUseCase(userRepo, jwtSvc, log),
			authUC.NewSignInUseCase(userRepo, jwtSvc, log),
			authUC.NewSignOutUseCase(sessions, jwtSvc, log),
			authUC.NewCurrentUserUseCase(userRepo),
		),
		Portfolio: NewPortfolioHandler(
			portfolioUC.NewCreateDraftUseCase(portfolioRepo, log),
			portfolioUC.NewGetPortfolioUseCase(portfolioRepo, log),
			portfolioUC.NewListPortfoliosUseCase(portfolioRepo, cache, log),
			portfolioUC.NewSavePortfolioUseCase(portfolioRepo, cache, nil, log),
			portfolioUC.NewEditPortfolioUseCase(portfolioRepo, cache, nil, log),
			portfolioUC.NewDeletePortfolioUseCase(portfolioRepo, cache, nil, log),
			portfolioUC.NewVotePortfolioUseCase(portfolioRepo, cache, nil, log),
		),
		Share: NewShareHandler(shareUC.NewQRCodeUseCase(portfolioRepo, "https://folio.example", 64, log)),
		RSS:   NewRSSHandler(portfolioUC.NewRSSUseCase(portfolioRepo, "https://folio.example", log), log),
	}

	s.router = NewRouter(h, RouterConfig{
		JWT:        jwtSvc,
		Sessions:   sessions,
		Limiter:    persistence.NewMemoryRateLimiter(),
		VoteLimit:  3,
		VoteWindow: time.Minute,
		Logger:     log,
	})

	var session SessionResponse
	rr := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Jane", "email": "jane@example.com", "password": "password123",
	}, &session)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	s.token = session.AccessToken
	s.userID = session.User.ID
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) do(method, path, token string, body any, out any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	if out != nil && rr.Code < 300 {
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), out), rr.Body.String())
	}
	return rr
}

// createSaved builds a draft and stores it with one text block.
func (s *RouterTestSuite) createSaved() PortfolioDTO {
	var draft PortfolioDTO
	rr := s.do(http.MethodPost, "/api/portfolios/new", s.token, nil, &draft)
	s.Require().Equal(http.StatusOK, rr.Code)

	var saved PortfolioDTO
	rr = s.do(http.MethodPut, "/api/portfolios/"+draft.ID, s.token, gin.H{
		"title":   draft.Title,
		"tagline": draft.Tagline,
		"blocks":  []gin.H{{"id": "b1", "type": "text", "content": "Hello"}},
	}, &saved)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	return saved
}

func (s *RouterTestSuite) Test_Health() {
	rr := s.do(http.MethodGet, "/api/health", "", nil, nil)
	s.Equal(http.StatusOK, rr.Code)
}

func (s *RouterTestSuite) Test_SignIn_And_Me() {
	rr := s.do(http.MethodPost, "/api/auth/signin", "", gin.H{"email": "jane@example.com", "password": "nope-nope"}, nil)
	s.Equal(http.StatusUnauthorized, rr.Code)

	var session SessionResponse
	rr = s.do(http.MethodPost, "/api/auth/signin", "", gin.H{"email": "jane@example.com", "password": "password123"}, &session)
	s.Require().Equal(http.StatusOK, rr.Code)

	var me UserDTO
	rr = s.do(http.MethodGet, "/api/auth/me", session.AccessToken, nil, &me)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal("Jane", me.Name)

	rr = s.do(http.MethodGet, "/api/auth/me", "", nil, nil)
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *RouterTestSuite) Test_SignUp_Validation() {
	rr := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{"name": "   ", "email": "x@example.com", "password": "password123"}, nil)
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodPost, "/api/auth/signup", "", gin.H{"name": "Jane", "email": "jane@example.com", "password": "password123"}, nil)
	s.Equal(http.StatusConflict, rr.Code)
}

func (s *RouterTestSuite) Test_SignOut_RevokesToken() {
	rr := s.do(http.MethodPost, "/api/auth/signout", s.token, nil, nil)
	s.Require().Equal(http.StatusNoContent, rr.Code)

	rr = s.do(http.MethodGet, "/api/auth/me", s.token, nil, nil)
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *RouterTestSuite) Test_CreateSaveGet() {
	rr := s.do(http.MethodPost, "/api/portfolios/new", "", nil, nil)
	s.Equal(http.StatusUnauthorized, rr.Code, "drafts need a session")

	saved := s.createSaved()
	s.Equal(s.userID, saved.UserID)
	s.Equal("New Portfolio", saved.Title)

	var got PortfolioDTO
	rr = s.do(http.MethodGet, "/api/portfolios/"+saved.ID, "", nil, &got)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Require().Len(got.Blocks, 1)
	s.Equal("Hello", got.Blocks[0].Content)
	s.Equal("full", string(got.Blocks[0].Width))

	rr = s.do(http.MethodGet, "/api/portfolios/missing", "", nil, nil)
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *RouterTestSuite) Test_Save_RejectsBadBlocks() {
	var draft PortfolioDTO
	s.do(http.MethodPost, "/api/portfolios/new", s.token, nil, &draft)

	rr := s.do(http.MethodPut, "/api/portfolios/"+draft.ID, s.token, gin.H{
		"blocks": []gin.H{{"id": "b1", "type": "video"}},
	}, nil)
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *RouterTestSuite) Test_EditCommands() {
	saved := s.createSaved()

	var edited PortfolioDTO
	rr := s.do(http.MethodPatch, "/api/portfolios/"+saved.ID, s.token, gin.H{
		"commands": []gin.H{
			{"op": "set_field", "field": "title", "value": "Jane Doe"},
			{"op": "add_block", "type": "image"},
			{"op": "drop_block", "active_id": "b1", "over_id": ""},
			{"op": "set_block_width", "id": "b1", "width": "medium"},
			{"op": "add_social_link"},
		},
	}, &edited)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	s.Equal("Jane Doe", edited.Title)
	s.Require().Len(edited.Blocks, 2)
	s.Equal("b1", edited.Blocks[0].ID)
	s.Equal("medium", string(edited.Blocks[0].Width))
	s.Equal("/placeholder.svg", edited.Blocks[1].Content)
	s.Len(edited.SocialLinks, 1)

	rr = s.do(http.MethodPatch, "/api/portfolios/"+saved.ID, s.token, gin.H{
		"commands": []gin.H{{"op": "reorder_block", "source": 0}},
	}, nil)
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodPatch, "/api/portfolios/"+saved.ID, s.token, gin.H{
		"commands": []gin.H{{"op": "explode"}},
	}, nil)
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *RouterTestSuite) Test_OtherUserCannotEdit() {
	saved := s.createSaved()

	var other SessionResponse
	s.do(http.MethodPost, "/api/auth/signup", "", gin.H{"name": "Mallory", "email": "m@example.com", "password": "password123"}, &other)

	rr := s.do(http.MethodDelete, "/api/portfolios/"+saved.ID, other.AccessToken, nil, nil)
	s.Equal(http.StatusForbidden, rr.Code)
}

func (s *RouterTestSuite) Test_DeleteThenGet() {
	saved := s.createSaved()

	rr := s.do(http.MethodDelete, "/api/portfolios/"+saved.ID, s.token, nil, nil)
	s.Require().Equal(http.StatusNoContent, rr.Code)

	rr = s.do(http.MethodDelete, "/api/portfolios/"+saved.ID, s.token, nil, nil)
	s.Equal(http.StatusNoContent, rr.Code)

	rr = s.do(http.MethodGet, "/api/portfolios/"+saved.ID, "", nil, nil)
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *RouterTestSuite) Test_Vote() {
	saved := s.createSaved()
	path := "/api/portfolios/" + saved.ID + "/vote"

	rr := s.do(http.MethodPost, path, "", gin.H{"vote_type": "upvote"}, nil)
	s.Equal(http.StatusUnauthorized, rr.Code)

	rr = s.do(http.MethodPost, path, s.token, gin.H{"vote_type": "sideways"}, nil)
	s.Equal(http.StatusBadRequest, rr.Code)

	var voted PortfolioDTO
	rr = s.do(http.MethodPost, path, s.token, gin.H{"vote_type": "downvote"}, &voted)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal(TallyDTO{Downvotes: 1, CurrentUserVote: "downvote"}, voted.Votes)

	var tally TallyDTO
	rr = s.do(http.MethodGet, "/api/portfolios/"+saved.ID+"/votes", s.token, nil, &tally)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal("downvote", tally.CurrentUserVote)

	rr = s.do(http.MethodGet, "/api/portfolios/"+saved.ID+"/votes", "", nil, &tally)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal("", tally.CurrentUserVote)

	rr = s.do(http.MethodPost, path, s.token, gin.H{"vote_type": "upvote"}, &voted)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal(TallyDTO{Upvotes: 1, CurrentUserVote: "upvote"}, voted.Votes)

	// three per window, and the rejected vote above counted too
	rr = s.do(http.MethodPost, path, s.token, gin.H{"vote_type": "upvote"}, nil)
	s.Equal(http.StatusTooManyRequests, rr.Code)
}

func (s *RouterTestSuite) Test_ListAndSearch() {
	a := s.createSaved()
	s.do(http.MethodPatch, "/api/portfolios/"+a.ID, s.token, gin.H{
		"commands": []gin.H{{"op": "set_field", "field": "title", "value": "Ceramics Studio"}},
	}, nil)
	s.createSaved()

	var page struct {
		Data []PortfolioSummaryDTO `json:"data"`
	}
	rr := s.do(http.MethodGet, "/api/portfolios", "", nil, &page)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Len(page.Data, 2)

	rr = s.do(http.MethodGet, "/api/portfolios?q=ceramics", "", nil, &page)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Require().Len(page.Data, 1)
	s.Equal(a.ID, page.Data[0].ID)

	rr = s.do(http.MethodGet, "/api/portfolios?limit=500", "", nil, nil)
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *RouterTestSuite) Test_QRCode_And_Feed() {
	saved := s.createSaved()

	rr := s.do(http.MethodGet, "/api/portfolios/"+saved.ID+"/qr", "", nil, nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal("image/png", rr.Header().Get("Content-Type"))
	s.Contains(rr.Header().Get("Content-Disposition"), "portfolio-"+saved.ID+"-qr.png")
	s.Equal("https://folio.example/portfolio/"+saved.ID+"/"+s.userID, rr.Header().Get("X-Share-URL"))

	rr = s.do(http.MethodGet, "/api/feed.xml", "", nil, nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "<rss")
	s.Contains(rr.Body.String(), saved.ID)
}
