// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

// # Dashboard

// DashboardStats is the aggregate shown on the dashboard.
type DashboardStats struct {
	Stats             Totals      `json:"stats"`
	MembershipsByType []TypeCount `json:"membershipsByType"`
	RecentPayments    []Payment   `json:"recentPayments"`
}

// Totals are the headline counters.
type Totals struct {
	TotalUsers        int     `json:"totalUsers"`
	TotalStudents     int     `json:"totalStudents"`
	ActiveMemberships int     `json:"activeMemberships"`
	TotalPayments     int     `json:"totalPayments"`
	Revenue           float64 `json:"revenue"`
}

// TypeCount is one bucket of a group-by, keyed by _id.
type TypeCount struct {
	Key   string `json:"_id"`
	Count int    `json:"count"`
}

// # AI Usage

// DefaultUsagePeriod is the lookback the backend applies when no period is sent.
const DefaultUsagePeriod = 30

// AIUsageStats is the usage and cost report for generated content.
type AIUsageStats struct {
	Period        int                `json:"period"`
	Summary       UsageSummary       `json:"summary"`
	RealTimeStats RealTimeStats      `json:"realTimeStats"`
	ByContentType []ContentTypeUsage `json:"byContentType"`
	ByModel       []ModelUsage       `json:"byModel"`
	DailyStats    []DailyUsage       `json:"dailyStats"`
	CacheStats    CacheStats         `json:"cacheStats"`
}

// UsageSummary totals the period.
type UsageSummary struct {
	TotalContentGenerated int     `json:"totalContentGenerated"`
	TotalRecommendations  int     `json:"totalRecommendations"`
	TotalTokens           int     `json:"totalTokens"`
	TotalCacheHits        int     `json:"totalCacheHits"`
	EstimatedCostUSD      float64 `json:"estimatedCostUSD"`
	CacheHitRate          string  `json:"cacheHitRate"`
}

// RealTimeStats are in-process counters on the backend since LastReset.
type RealTimeStats struct {
	CacheHits    int    `json:"cacheHits"`
	APICalls     int    `json:"apiCalls"`
	CacheHitRate string `json:"cacheHitRate"`
	LastReset    string `json:"lastReset"`
}

// ContentTypeUsage groups generated content by kind (syllabus, topic, exercise, ...).
type ContentTypeUsage struct {
	ContentType string  `json:"_id"`
	Count       int     `json:"count"`
	TotalTokens int     `json:"totalTokens"`
	TotalUsage  int     `json:"totalUsage"`
	AvgTokens   float64 `json:"avgTokens"`
}

// ModelUsage groups calls by model name. An empty Model means unknown.
type ModelUsage struct {
	Model       string `json:"_id"`
	Count       int    `json:"count"`
	TotalTokens int    `json:"totalTokens"`
}

// DailyUsage is one point of the daily series; Day is YYYY-MM-DD.
type DailyUsage struct {
	Day    string `json:"_id"`
	Count  int    `json:"count"`
	Tokens int    `json:"tokens"`
}

// CacheStats summarizes reuse of generated content.
type CacheStats struct {
	TotalGenerated  int     `json:"totalGenerated"`
	TotalCacheHits  int     `json:"totalCacheHits"`
	AvgUsagePerItem float64 `json:"avgUsagePerItem"`
}

// FieldPeriod is the validation field for the lookback window.
const FieldPeriod = "period"
