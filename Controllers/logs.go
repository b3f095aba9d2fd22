package Controllers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"Verdant/middleware"
)

const requestLogFile = "logs/requests.log"

type logGroup struct {
	Path        string               `json:"path"`
	Method      string               `json:"method"`
	Count       int                  `json:"count"`
	AvgLatency  float64              `json:"avg_latency_ms"`
	MaxLatency  float64              `json:"max_latency_ms"`
	SuccessRate float64              `json:"success_rate"`
	Logs        []middleware.LogData `json:"logs"`
}

// logDateRange parses date_from/date_to query params, defaulting to today.
func logDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	fromStr := c.Query("date_from", "")
	toStr := c.Query("date_to", "")

	now := time.Now()
	if fromStr == "" && toStr == "" {
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return from, from.Add(24*time.Hour - time.Nanosecond), nil
	}

	from := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	to := now
	if fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid date_from, use YYYY-MM-DD")
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid date_to, use YYYY-MM-DD")
		}
		to = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, parsed.Location()).
			Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}

func readRequestLog(from, to time.Time) ([]middleware.LogData, error) {
	file, err := os.Open(requestLogFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []middleware.LogData
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry middleware.LogData
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.Timestamp.After(from) && entry.Timestamp.Before(to) {
			entries = append(entries, entry)
		}
	}
	return entries, scanner.Err()
}

// GetLogs returns request logs grouped by method and path.
func GetLogs(c *fiber.Ctx) error {
	from, to, err := logDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	pathFilter := strings.ToLower(c.Query("path", ""))
	methodFilter := strings.ToUpper(c.Query("method", ""))
	statusFilter := c.Query("status", "")

	entries, err := readRequestLog(from, to)
	if err != nil {
		log.Printf("Error reading request log: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read logs"})
	}

	groupMap := make(map[string]*logGroup)
	for _, entry := range entries {
		if pathFilter != "" && !strings.Contains(strings.ToLower(entry.Path), pathFilter) {
			continue
		}
		if methodFilter != "" && strings.ToUpper(entry.Method) != methodFilter {
			continue
		}
		if statusFilter != "" {
			if status, err := strconv.Atoi(statusFilter); err == nil && entry.Status != status {
				continue
			}
		}

		key := entry.Method + " " + entry.Path
		group, ok := groupMap[key]
		if !ok {
			group = &logGroup{Path: entry.Path, Method: entry.Method}
			groupMap[key] = group
		}
		group.Count++
		group.Logs = append(group.Logs, entry)

		latencyMs := float64(entry.Latency.Microseconds()) / 1000.0
		group.AvgLatency += (latencyMs - group.AvgLatency) / float64(group.Count)
		if latencyMs > group.MaxLatency {
			group.MaxLatency = latencyMs
		}
		success := 0.0
		if entry.Status >= 200 && entry.Status < 300 {
			success = 1.0
		}
		group.SuccessRate += (success - group.SuccessRate) / float64(group.Count)
	}

	groups := make([]logGroup, 0, len(groupMap))
	totalLogs := 0
	for _, group := range groupMap {
		groups = append(groups, *group)
		totalLogs += group.Count
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})

	return c.JSON(fiber.Map{
		"groups":       groups,
		"total_logs":   totalLogs,
		"total_groups": len(groups),
		"date_from":    from,
		"date_to":      to,
	})
}

// GetLogStats returns aggregate request statistics for a date range.
func GetLogStats(c *fiber.Ctx) error {
	from, to, err := logDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	entries, err := readRequestLog(from, to)
	if err != nil {
		log.Printf("Error reading request log: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read logs"})
	}

	var successful, failed int
	var totalLatency, maxLatency time.Duration
	methodStats := make(map[string]int)
	statusStats := make(map[int]int)
	pathStats := make(map[string]int)

	for _, entry := range entries {
		switch {
		case entry.Status >= 200 && entry.Status < 300:
			successful++
		case entry.Status >= 400:
			failed++
		}
		totalLatency += entry.Latency
		if entry.Latency > maxLatency {
			maxLatency = entry.Latency
		}
		methodStats[entry.Method]++
		statusStats[entry.Status]++
		pathStats[entry.Path]++
	}

	total := len(entries)
	avgLatency := time.Duration(0)
	successRate := 0.0
	if total > 0 {
		avgLatency = totalLatency / time.Duration(total)
		successRate = float64(successful) / float64(total) * 100
	}

	type pathCount struct {
		Path  string `json:"path"`
		Count int    `json:"count"`
	}
	topPaths := make([]pathCount, 0, len(pathStats))
	for path, count := range pathStats {
		topPaths = append(topPaths, pathCount{Path: path, Count: count})
	}
	sort.Slice(topPaths, func(i, j int) bool {
		return topPaths[i].Count > topPaths[j].Count
	})
	if len(topPaths) > 10 {
		topPaths = topPaths[:10]
	}

	return c.JSON(fiber.Map{
		"total_requests":      total,
		"successful_requests": successful,
		"error_requests":      failed,
		"success_rate":        successRate,
		"avg_latency_ms":      float64(avgLatency.Microseconds()) / 1000.0,
		"max_latency_ms":      float64(maxLatency.Microseconds()) / 1000.0,
		"method_stats":        methodStats,
		"status_stats":        statusStats,
		"top_paths":           topPaths,
		"date_from":           from,
		"date_to":             to,
	})
}
