// Package api provides the REST API server for text2midi
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/james-see/text2midi/pkg/converter"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Text2MIDI API
// @version 1.0
// @description API for converting between plain-text note lists and MIDI files
// @host localhost:8080
// @BasePath /api/v1

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/convert/text2midi", handleTextToMIDI)
		v1.POST("/convert/midi2csv", handleMIDIToCSV)
		v1.GET("/dialects", listDialects)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r.Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "text2midi",
	})
}

// listDialects godoc
// @Summary List recognized text dialects
// @Description Returns the text dialects the parser auto-detects
// @Tags info
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/dialects [get]
func listDialects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"dialects": []map[string]string{
			{"id": "csv", "line": "onset_seconds,duration_seconds,pitch[,velocity]"},
			{"id": "sequential", "line": "pitch duration_seconds [velocity]"},
			{"id": "rhythmic", "line": "pitch duration_token [velocity]"},
		},
		"conversions": converter.GetSupportedConversions(),
	})
}

// handleTextToMIDI godoc
// @Summary Convert a text note list to MIDI
// @Description Upload a text file and receive a MIDI file
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "Text note list to convert"
// @Param bpm query number false "Tempo in BPM (default: 120)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert/text2midi [post]
func handleTextToMIDI(c *gin.Context) {
	data, filename, ok := readUpload(c)
	if !ok {
		return
	}

	conv := converter.New()
	if bpmParam := c.Query("bpm"); bpmParam != "" {
		bpm, err := strconv.ParseFloat(bpmParam, 64)
		if err != nil || bpm <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bpm parameter"})
			return
		}
		conv.BPM = bpm
	}

	result, dialect, err := conv.TextToMIDI(data)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, converter.ErrEmptyInput) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Header("X-Detected-Dialect", string(dialect))
	sendFile(c, result, filename, ".mid", "audio/midi")
}

// handleMIDIToCSV godoc
// @Summary Convert a MIDI file to CSV note rows
// @Description Upload a MIDI file and receive CSV rows of onset,duration,pitch,velocity
// @Tags convert
// @Accept multipart/form-data
// @Produce text/csv
// @Param file formData file true "MIDI file to convert"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert/midi2csv [post]
func handleMIDIToCSV(c *gin.Context) {
	data, filename, ok := readUpload(c)
	if !ok {
		return
	}

	result, err := converter.New().MIDIToCSV(data)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	sendFile(c, result, filename, ".csv", "text/csv")
}

func readUpload(c *gin.Context) (data []byte, filename string, ok bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, "", false
	}
	defer func() { _ = file.Close() }()

	data, err = io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, "", false
	}
	return data, header.Filename, true
}

func sendFile(c *gin.Context, data []byte, uploadName, outputExt, contentType string) {
	outputName := "converted" + outputExt
	if dot := strings.LastIndex(uploadName, "."); dot > 0 {
		outputName = uploadName[:dot] + outputExt
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName))
	c.Data(http.StatusOK, contentType, data)
}
