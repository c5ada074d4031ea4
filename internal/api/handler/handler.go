package handler

import (
	"github.com/Ta321487/TicketAssitant-sub000/internal/render"
	"github.com/Ta321487/TicketAssitant-sub000/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Station    *StationHandler
	Ticket     *TicketHandler
	Collection *CollectionHandler
	Geo        *GeoHandler
	Import     *ImportHandler
	Render     *RenderHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, renderer *render.Renderer) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Conn, svc.Station),
		Station:    NewStationHandler(svc.Station),
		Ticket:     NewTicketHandler(svc.Ticket, svc.Export),
		Collection: NewCollectionHandler(svc.Collection),
		Geo:        NewGeoHandler(svc.Geo),
		Import:     NewImportHandler(svc.Import),
		Render:     NewRenderHandler(svc.Ticket, renderer),
	}
}
