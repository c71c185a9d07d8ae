package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.ClientInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)

	v1 := s.router.Group("/v1")
	{
		inspect := v1.Group("/inspect")
		inspect.POST("/image", s.inspectHandler.InspectImage)
	}
}
