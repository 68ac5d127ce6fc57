package coins

import (
	"log/slog"
	"net/http"

	"github.com/cryptodeck/cryptodeck-api/internal/api"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetCoins(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	coinsService CoinsService
	logger       *slog.Logger
}

func NewHandlerImpl(coinsService CoinsService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		coinsService: coinsService,
		logger:       logger,
	}
}

// GetCoins godoc
// @Summary      List Coin Markets
// @Description  Relays one page of market records from the provider, verbatim.
// @Tags         Coins
// @Produce      json
// @Success      200 {array} map[string]interface{} "Market records"
// @Failure      500 {object} map[string]interface{} "Provider unavailable"
// @Router       /api/coins [get]
func (h *HandlerImpl) GetCoins(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetCoins"))

	data, err := h.coinsService.FetchCoins(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch coins", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch data")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, data)
}
