package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portfolioUC "github.com/khoahotran/folio/internal/application/usecase/portfolio"
	"github.com/khoahotran/folio/internal/domain/vote"
	"github.com/khoahotran/folio/pkg/apperror"
)

type PortfolioHandler struct {
	createDraftUseCase *portfolioUC.CreateDraftUseCase
	getUseCase         *portfolioUC.GetPortfolioUseCase
	listUseCase        *portfolioUC.ListPortfoliosUseCase
	saveUseCase        *portfolioUC.SavePortfolioUseCase
	editUseCase        *portfolioUC.EditPortfolioUseCase
	deleteUseCase      *portfolioUC.DeletePortfolioUseCase
	voteUseCase        *portfolioUC.VotePortfolioUseCase
}

func NewPortfolioHandler(
	createDraftUC *portfolioUC.CreateDraftUseCase,
	getUC *portfolioUC.GetPortfolioUseCase,
	listUC *portfolioUC.ListPortfoliosUseCase,
	saveUC *portfolioUC.SavePortfolioUseCase,
	editUC *portfolioUC.EditPortfolioUseCase,
	deleteUC *portfolioUC.DeletePortfolioUseCase,
	voteUC *portfolioUC.VotePortfolioUseCase,
) *PortfolioHandler {
	return &PortfolioHandler{
		createDraftUseCase: createDraftUC,
		getUseCase:         getUC,
		listUseCase:        listUC,
		saveUseCase:        saveUC,
		editUseCase:        editUC,
		deleteUseCase:      deleteUC,
		voteUseCase:        voteUC,
	}
}

func (h *PortfolioHandler) ListPortfolios(c *gin.Context) {
	var q ListPortfoliosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	output, err := h.listUseCase.Execute(c.Request.Context(), portfolioUC.ListPortfoliosInput{
		UserID: q.UserID,
		Query:  q.Q,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		c.Error(err)
		return
	}

	items := make([]PortfolioSummaryDTO, len(output.Portfolios))
	for i, p := range output.Portfolios {
		items[i] = ToPortfolioSummaryDTO(p)
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  items,
		"page":  output.Page,
		"limit": output.Limit,
	})
}

func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	viewerID, _ := GetUserIDFromGinContext(c)
	view, err := h.getUseCase.Execute(c.Request.Context(), portfolioUC.GetPortfolioInput{
		PortfolioID: c.Param("id"),
		ViewerID:    viewerID,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPortfolioDTO(view))
}

func (h *PortfolioHandler) GetVotes(c *gin.Context) {
	viewerID, _ := GetUserIDFromGinContext(c)
	view, err := h.getUseCase.Execute(c.Request.Context(), portfolioUC.GetPortfolioInput{
		PortfolioID: c.Param("id"),
		ViewerID:    viewerID,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToTallyDTO(view))
}

func (h *PortfolioHandler) CreateDraft(c *gin.Context) {
	userID, _ := GetUserIDFromGinContext(c)
	draft, err := h.createDraftUseCase.Execute(c.Request.Context(), portfolioUC.CreateDraftInput{UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPortfolioDTO(&portfolioUC.View{Portfolio: draft, Tally: draft.Tally()}))
}

func (h *PortfolioHandler) SavePortfolio(c *gin.Context) {
	userID, _ := GetUserIDFromGinContext(c)

	var req SavePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.saveUseCase.Execute(c.Request.Context(), portfolioUC.SavePortfolioInput{
		UserID:    userID,
		Portfolio: req.ToDomain(c.Param("id")),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPortfolioDTO(view))
}

func (h *PortfolioHandler) EditPortfolio(c *gin.Context) {
	userID, _ := GetUserIDFromGinContext(c)

	var req EditPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	cmds, err := req.ToCommands()
	if err != nil {
		bindError(c, err)
		return
	}

	view, err := h.editUseCase.Execute(c.Request.Context(), portfolioUC.EditPortfolioInput{
		UserID:      userID,
		PortfolioID: c.Param("id"),
		Commands:    cmds,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPortfolioDTO(view))
}

func (h *PortfolioHandler) DeletePortfolio(c *gin.Context) {
	userID, _ := GetUserIDFromGinContext(c)
	err := h.deleteUseCase.Execute(c.Request.Context(), portfolioUC.DeletePortfolioInput{
		UserID:      userID,
		PortfolioID: c.Param("id"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PortfolioHandler) Vote(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthenticated("vote"))
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.voteUseCase.Execute(c.Request.Context(), portfolioUC.VotePortfolioInput{
		UserID:      userID,
		PortfolioID: c.Param("id"),
		VoteType:    vote.Type(req.VoteType),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPortfolioDTO(view))
}
