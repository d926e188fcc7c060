package ingest

// ScoreQuality implements the data-quality formula of §4.1: start at
// 100, dock points for each defect, clamp to [0,100], and cap at 50
// when a synthetic id is the only thing wrong.
func ScoreQuality(isSynthetic, zeroTotalValue, missingOwner, missingAddress, invalidGeometry bool) int {
	score := 100
	if isSynthetic {
		score -= 20
	}
	if zeroTotalValue {
		score -= 15
	}
	if missingOwner {
		score -= 10
	}
	if missingAddress {
		score -= 5
	}
	if invalidGeometry {
		score -= 25
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	onlySynthetic := isSynthetic && !zeroTotalValue && !missingOwner && !missingAddress && !invalidGeometry
	if onlySynthetic && score > 50 {
		score = 50
	}

	return score
}
