package advisor

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// Briefing defaults.
const (
	DefaultVesselName    = "JOPETWIL 71"
	DefaultVesselStatus  = "Ready @ MW4"
	DefaultCurrentVoyage = "N/A"
)

// ErrInvalidBriefing is returned when a briefing request is not a JSON
// object or one of its schedule entries is not an object.
var ErrInvalidBriefing = errors.New("briefing request must be a JSON object")

// Args: vessel, time, status, voyage, schedule section, weather section.
const briefingFormat = `🌅 **일일 브리핑 - %s**

**📅 시간:** %s
**🚢 선박 상태:** %s
**📋 현재 항차:** %s

---

## 📊 **항차 스케줄 현황**

%s

## 🌊 **기상 조건**

%s

## ⚠️ **주의사항 및 권고**

• 정기적인 기상 업데이트 확인 필요
• 선박 상태 점검 및 유지보수
• 화물 적재 준비 상황 점검
• 항만 접안 계획 검토

## 🎯 **오늘의 목표**

• 안전한 운항 준비 완료
• 스케줄 준수 및 지연 방지
• 연료 및 보급품 점검
• 승무원 안전 교육

---
*이 브리핑은 AI 시스템에 의해 자동 생성되었습니다.*`

// WithDefaults fills every empty field of b. The current time is taken
// from now and formatted as RFC 3339.
func (b Briefing) WithDefaults(now func() time.Time, defaultModel string) Briefing {
	if b.CurrentTime == "" {
		b.CurrentTime = now().Format(time.RFC3339)
	}
	b.VesselName = orDefault(b.VesselName, DefaultVesselName)
	b.VesselStatus = orDefault(b.VesselStatus, DefaultVesselStatus)
	b.CurrentVoyage = orDefault(b.CurrentVoyage, DefaultCurrentVoyage)
	b.Model = orDefault(b.Model, orDefault(defaultModel, DefaultModel))
	return b
}

// ComposeBriefing renders the daily briefing report. Header fields are
// expected to be filled already, see WithDefaults.
func ComposeBriefing(b Briefing) string {
	return fmt.Sprintf(briefingFormat,
		b.VesselName,
		b.CurrentTime,
		b.VesselStatus,
		b.CurrentVoyage,
		SummarizeSchedule(b.Schedule),
		SummarizeWeather(b.WeatherWindows),
	)
}

// DecodeBriefing reads a briefing request. Unknown keys are ignored and
// scalar values of any JSON type are accepted for the text fields. A
// schedule or weather_windows value that is not an array counts as empty.
func DecodeBriefing(data []byte) (Briefing, error) {
	if !gjson.ValidBytes(data) {
		return Briefing{}, ErrInvalidBriefing
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Briefing{}, ErrInvalidBriefing
	}

	b := Briefing{
		CurrentTime:   scalar(root.Get("current_time")),
		VesselName:    scalar(root.Get("vessel_name")),
		VesselStatus:  scalar(root.Get("vessel_status")),
		CurrentVoyage: scalar(root.Get("current_voyage")),
		Model:         scalar(root.Get("model")),
		Format:        scalar(root.Get("format")),
	}

	if sched := root.Get("schedule"); sched.IsArray() {
		for i, item := range sched.Array() {
			if !item.IsObject() {
				return Briefing{}, fmt.Errorf("schedule[%d]: %w", i, ErrInvalidBriefing)
			}
			b.Schedule = append(b.Schedule, voyageFromResult(item))
		}
	}
	if windows := root.Get("weather_windows"); windows.IsArray() {
		for _, item := range windows.Array() {
			b.WeatherWindows = append(b.WeatherWindows, WeatherWindow{Raw: item.Raw})
		}
	}
	return b, nil
}
