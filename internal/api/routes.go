package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/agent"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/api/middleware"
)

const OpenAPIPath = "/api/v1/openapi.json"

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/query").
			To(handler.Query).
			Doc("Translate a question to SQL and run it against STUDENT").
			Metadata(restfulspec.KeyOpenAPITags, []string{"query"}).
			Reads(QueryRequest{}).
			Writes(agent.Answer{}).
			Returns(200, "OK", agent.Answer{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(502, "Model Unavailable", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/commands").
			To(handler.Commands).
			Doc("List the command allow-list").
			Metadata(restfulspec.KeyOpenAPITags, []string{"policy"}).
			Writes(CommandsResponse{}).
			Returns(200, "OK", CommandsResponse{}))

	ws.
		Route(ws.GET("/history").
			To(handler.History).
			Doc("Recent submissions").
			Metadata(restfulspec.KeyOpenAPITags, []string{"history"}).
			Param(ws.QueryParameter("limit", "Number of entries (1-500, default: 20)").DataType("integer").Required(false)).
			Writes(HistoryResponse{}).
			Returns(200, "OK", HistoryResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}

// RegisterOpenAPI serves the OpenAPI document for every web service already
// added to the container.
func RegisterOpenAPI(container *restful.Container) {
	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       OpenAPIPath,
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}

	container.Add(restfulspec.NewOpenAPIService(config))
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "SQL Agent API",
			Description: "Natural-language questions answered from the STUDENT table",
			Version:     Version,
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "query", Description: "Question to SQL"}},
		{TagProps: spec.TagProps{Name: "policy", Description: "Command allow-list"}},
		{TagProps: spec.TagProps{Name: "history", Description: "Submission trail"}},
		{TagProps: spec.TagProps{Name: "health", Description: "Service status"}},
	}
}
