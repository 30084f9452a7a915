// internal/controller/campaign_controller.go
package controller

import (
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    "github.com/unclebandit/ggph-smms/internal/handler"
    "github.com/unclebandit/ggph-smms/internal/model"
    "github.com/unclebandit/ggph-smms/internal/service"
)

type CampaignController struct {
    CampaignService *service.CampaignService
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
    page, _ := strconv.Atoi(r.URL.Query().Get("page"))
    pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

    campaigns, pagination, err := c.CampaignService.ListCampaigns(r.Context(), handler.CampaignQuery(r), page, pageSize)
    if err != nil {
        writeError(w, err)
        return
    }

    json200(w, map[string]interface{}{
        "data":       campaigns,
        "pagination": pagination,
    })
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
    campaign, err := c.CampaignService.GetCampaign(r.Context(), chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, err)
        return
    }
    json200(w, campaign)
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
    var body service.CampaignInput
    if err := decode(r, &body); err != nil {
        writeError(w, err)
        return
    }

    campaign, err := c.CampaignService.CreateCampaign(r.Context(), body, actor(r))
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusCreated, campaign)
}

func (c *CampaignController) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
    var body service.CampaignInput
    if err := decode(r, &body); err != nil {
        writeError(w, err)
        return
    }

    campaign, err := c.CampaignService.UpdateCampaign(r.Context(), chi.URLParam(r, "id"), body, actor(r))
    if err != nil {
        writeError(w, err)
        return
    }
    json200(w, campaign)
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
    if err := c.CampaignService.DeleteCampaign(r.Context(), chi.URLParam(r, "id"), actor(r)); err != nil {
        writeError(w, err)
        return
    }
    w.WriteHeader(http.StatusNoContent)
}

func (c *CampaignController) SetStatus(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Status model.CampaignStatus `json:"status"`
    }
    if err := decode(r, &body); err != nil {
        writeError(w, err)
        return
    }
    id := chi.URLParam(r, "id")
    if err := c.CampaignService.SetStatus(r.Context(), id, body.Status, actor(r)); err != nil {
        writeError(w, err)
        return
    }
    json200(w, map[string]interface{}{"id": id, "status": body.Status})
}

func (c *CampaignController) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    status, err := c.CampaignService.AdvanceStatus(r.Context(), id, actor(r))
    if err != nil {
        writeError(w, err)
        return
    }
    json200(w, map[string]interface{}{"id": id, "status": status})
}

func (c *CampaignController) History(w http.ResponseWriter, r *http.Request) {
    entries, err := c.CampaignService.History(r.Context(), chi.URLParam(r, "id"))
    if err != nil {
        writeError(w, err)
        return
    }
    json200(w, map[string]interface{}{"data": entries})
}

func (c *CampaignController) AddPlan(w http.ResponseWriter, r *http.Request) {
    var body service.PlanInput
    if err := decode(r, &body); err != nil {
        writeError(w, err)
        return
    }

    plan, err := c.CampaignService.AddPlan(r.Context(), chi.URLParam(r, "id"), body, actor(r))
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusCreated, plan)
}

func (c *CampaignController) UpdatePlan(w http.ResponseWriter, r *http.Request) {
    var body service.PlanInput
    if err := decode(r, &body); err != nil {
        writeError(w, err)
        return
    }

    plan, err := c.CampaignService.UpdatePlan(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "planID"), body, actor(r))
    if err != nil {
        writeError(w, err)
        return
    }
    json200(w, plan)
}

func (c *CampaignController) DeletePlan(w http.ResponseWriter, r *http.Request) {
    err := c.CampaignService.DeletePlan(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "planID"), actor(r))
    if err != nil {
        writeError(w, err)
        return
    }
    w.WriteHeader(http.StatusNoContent)
}

func (c *CampaignController) AdvancePlanStatus(w http.ResponseWriter, r *http.Request) {
    planID := chi.URLParam(r, "planID")
    status, err := c.CampaignService.AdvancePlanStatus(r.Context(), chi.URLParam(r, "id"), planID, actor(r))
    if err != nil {
        writeError(w, err)
        return
    }
    json200(w, map[string]interface{}{"id": planID, "status": status})
}
