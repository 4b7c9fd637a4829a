package advisor

import "fmt"

// Canned answers per intent. The figures are illustrative placeholders,
// not computed from any request data.
const (
	scheduleAnswer = `📋 **항차 스케줄 분석**

현재 등록된 항차 정보:
• 69th 항차: Dune Sand 화물, ETD 2025-09-28 16:00, ETA 2025-09-29 04:00
• 70th 항차: 10mm Agg. 화물, ETD 2025-09-30 16:00, ETA 2025-10-01 04:00  
• 71st 항차: 5mm Agg. 화물, ETD 2025-10-02 16:00, ETA 2025-10-03 04:00

**권고사항:**
- 모든 항차가 정상 스케줄에 따라 진행 중
- 기상 조건 모니터링 필요
- IOI 점수 확인 권장`

	weatherAnswer = `🌊 **기상 조건 분석**

현재 해상 기상 상황:
• 파고(Hs): 1.5m (정상 범위)
• 풍속: 20kt (주의 단계)
• 시정: 5.0km (양호)

**주의사항:**
- 풍속이 주의 단계에 근접
- 24시간 내 기상 변화 모니터링 필요
- IOI 점수: 75 (GO 조건)`

	riskAnswer = `⚠️ **위험 요소 분석**

**현재 위험도: 낮음**
• 기상 위험: 낮음 (파고 1.5m, 풍속 20kt)
• 운항 위험: 낮음 (정상 스케줄 진행)
• 화물 위험: 낮음 (표준 화물)

**권고사항:**
- 정기적인 기상 업데이트 확인
- 선박 상태 점검 유지
- 비상 계획 점검`

	indexScoreAnswer = `📊 **IOI (Index of Interest) 분석**

현재 IOI 점수: **75점** (GO 조건)

**세부 분석:**
• 파고 점수: 85/100 (1.5m - 양호)
• 풍속 점수: 70/100 (20kt - 주의)
• 스웰 주기: 75/100 (8초 - 양호)

**종합 평가:** 운항 가능 조건`

	// fallbackAnswerFormat takes the verbatim prompt.
	fallbackAnswerFormat = `🤖 **AI 어시스턴트 응답**

질문: "%s"

안녕하세요! 물류 관제탑 AI 어시스턴트입니다.

**제공 서비스:**
• 항차 스케줄 분석 및 최적화
• 기상 조건 모니터링 및 위험 평가
• IOI 점수 계산 및 운항 권고
• 일일 브리핑 및 상황 보고

더 구체적인 질문을 해주시면 상세한 분석을 제공해드리겠습니다.

**예시 질문:**
- "다음 3일 스케줄 요약해줘"
- "현재 기상 조건은 어떤가요?"
- "위험 요소를 분석해줘" `
)

// CannedAnswer returns the hand-authored answer for intent. Only the
// fallback answer depends on the prompt.
func CannedAnswer(intent Intent, prompt string) string {
	switch intent {
	case IntentSchedule:
		return scheduleAnswer
	case IntentWeather:
		return weatherAnswer
	case IntentRisk:
		return riskAnswer
	case IntentIndexScore:
		return indexScoreAnswer
	default:
		return fmt.Sprintf(fallbackAnswerFormat, prompt)
	}
}
