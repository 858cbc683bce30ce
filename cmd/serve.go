package cmd

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"booktranslator/internal/apihandlers"
)

var (
	serveAddr string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run booktranslator as an HTTP API server",
	Long:  "Starts an HTTP server exposing translation submission and status checks for other tools to drive.",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		router := gin.Default()
		handler := apihandlers.New(appInstance.Orchestrator, appInstance.Config, appInstance.Logger)

		v1 := router.Group("/v1")
		{
			v1.POST("/translations", handler.CreateTranslation)
			v1.GET("/translations/:id", handler.GetTranslation)
		}
		router.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		listenAddr := fmt.Sprintf("%s:%s", serveAddr, servePort)
		appInstance.Logger.Infof("starting API server on http://%s", listenAddr)
		return router.Run(listenAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost", "address to listen on")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "port to listen on")
}
