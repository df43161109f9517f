package kommo

import "encoding/json"

// PipelineStatus is a status of a main Kommo pipeline, as exposed to the rest
// of the application.
type PipelineStatus struct {
	ID         int64
	Name       string
	PipelineID int64
	IsMain     bool
}

// ---- wire types (Kommo API v4) ----

type addLeadRequest struct {
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
}

type updateLeadRequest struct {
	ID    int64        `json:"id"`
	Name  *string      `json:"name,omitempty"`
	Price *json.Number `json:"price,omitempty"`
}

type apiLead struct {
	ID        int64 `json:"id"`
	UpdatedAt int64 `json:"updated_at"`
}

type apiStatus struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Sort       int    `json:"sort"`
	IsEditable bool   `json:"is_editable"`
	PipelineID int64  `json:"pipeline_id"`
}

type apiPipeline struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Sort     int    `json:"sort"`
	IsMain   bool   `json:"is_main"`
	Embedded struct {
		Statuses []apiStatus `json:"statuses"`
	} `json:"_embedded"`
}

type leadsResponse struct {
	Embedded struct {
		Leads []apiLead `json:"leads"`
	} `json:"_embedded"`
}

type pipelinesResponse struct {
	TotalItems int `json:"_total_items"`
	Embedded   struct {
		Pipelines []apiPipeline `json:"pipelines"`
	} `json:"_embedded"`
}
