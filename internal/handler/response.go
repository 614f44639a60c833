package handler

import (
	"github.com/actuallystonmai/ranking-service/internal/domain"
	"github.com/actuallystonmai/ranking-service/internal/scheduler"
)

type HarvestStatusResponse struct {
	State      scheduler.RunState     `json:"state"`
	LastReport *domain.HarvestReport `json:"last_report"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
