package services

// ConsistencyAlpha computes Cronbach's alpha for a response matrix shaped
// [nParticipants][nQuestions]. It answers how consistently one population
// rated the questionnaire as a whole; low values warn the consultant that a
// population's aggregate averages rest on noisy input.
//
// Population variance (divide by N) is used throughout, so perfectly
// correlated answers yield exactly 1.0. Results are clamped to [0, 1].
func ConsistencyAlpha(matrix [][]float64) float64 {
	n := len(matrix)
	if n == 0 {
		return 0
	}
	k := len(matrix[0])
	if k < 2 {
		return 0
	}

	questionMeans := make([]float64, k)
	participantTotals := make([]float64, n)
	for i, row := range matrix {
		if len(row) != k {
			return 0
		}
		for j, v := range row {
			questionMeans[j] += v
			participantTotals[i] += v
		}
	}
	for j := range questionMeans {
		questionMeans[j] /= float64(n)
	}

	var sumQuestionVars float64
	for j := 0; j < k; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			d := matrix[i][j] - questionMeans[j]
			sum += d * d
		}
		sumQuestionVars += sum / float64(n)
	}

	var totalMean float64
	for _, t := range participantTotals {
		totalMean += t
	}
	totalMean /= float64(n)
	var totalVar float64
	for _, t := range participantTotals {
		d := t - totalMean
		totalVar += d * d
	}
	totalVar /= float64(n)
	if totalVar == 0 {
		return 0
	}

	kf := float64(k)
	alpha := (kf / (kf - 1.0)) * (1.0 - sumQuestionVars/totalVar)
	if alpha < 0 {
		return 0
	}
	if alpha > 1 {
		return 1
	}
	return alpha
}
