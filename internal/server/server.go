/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"commerce-context-go/internal/registry"
	"commerce-context-go/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server is the HTTP transport over the capability registry. All domain
// behaviour lives behind the registry; handlers only translate envelopes.
type Server struct {
	router   *gin.Engine
	registry *registry.Registry
	store    store.ContextStore
	http     *http.Server
}

func NewServer(reg *registry.Registry, contextStore store.ContextStore, addr string) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router:   router,
		registry: reg,
		store:    contextStore,
		http: &http.Server{
			Addr:    addr,
			Handler: router,
		},
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	v1 := s.router.Group("/v1")
	{
		v1.GET("/capabilities", s.listCapabilities)
		v1.POST("/operations/:name", s.invokeOperation)
		// The catch-all also serves the bare /snapshots listing: gin cannot
		// register both a literal and a wildcard at the same segment.
		v1.GET("/snapshots/*id", s.readSnapshot)
		v1.GET("/templates", s.listTemplates)
		v1.POST("/templates/:name", s.runTemplate)
	}
	s.router.GET("/health", s.healthCheck)
}

func statusForKind(kind string) int {
	switch kind {
	case registry.KindInvalidArgument:
		return http.StatusBadRequest
	case registry.KindNotFound:
		return http.StatusNotFound
	case registry.KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeResponse(c *gin.Context, response registry.Response) {
	if response.Error != nil {
		c.JSON(statusForKind(response.Error.Kind), response)
		return
	}
	c.JSON(http.StatusOK, response)
}

// listCapabilities returns the full catalog: operations, snapshots, templates.
func (s *Server) listCapabilities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"operations": s.registry.Operations(),
		"snapshots":  s.registry.Snapshots(),
		"templates":  s.registry.Templates(),
	})
}

func (s *Server) invokeOperation(c *gin.Context) {
	params := map[string]any{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&params); err != nil {
			c.JSON(http.StatusBadRequest, registry.Response{
				Operation: c.Param("name"),
				Error: &registry.Failure{
					Kind:    registry.KindInvalidArgument,
					Message: "request body is not valid JSON: " + err.Error(),
				},
			})
			return
		}
	}
	writeResponse(c, s.registry.Invoke(c.Request.Context(), c.Param("name"), params))
}

func (s *Server) readSnapshot(c *gin.Context) {
	id := strings.TrimPrefix(c.Param("id"), "/")
	if id == "" {
		c.JSON(http.StatusOK, gin.H{"snapshots": s.registry.Snapshots()})
		return
	}
	writeResponse(c, s.registry.ReadSnapshot(c.Request.Context(), id))
}

func (s *Server) listTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": s.registry.Templates()})
}

func (s *Server) runTemplate(c *gin.Context) {
	params := map[string]any{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&params); err != nil {
			c.JSON(http.StatusBadRequest, registry.TemplateResult{
				Template: c.Param("name"),
				Error: &registry.Failure{
					Kind:    registry.KindInvalidArgument,
					Message: "request body is not valid JSON: " + err.Error(),
				},
			})
			return
		}
	}

	result := s.registry.RunTemplate(c.Request.Context(), c.Param("name"), params)
	if result.Error != nil {
		c.JSON(statusForKind(result.Error.Kind), result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// healthCheck reports whether the durable store is reachable.
func (s *Server) healthCheck(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "store unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "commerce-context",
	})
}

// Start blocks serving HTTP until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	zap.L().Info("HTTP server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
