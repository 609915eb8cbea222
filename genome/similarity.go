package genome

// GeneSimilarity scores how alike two genes are, in [0, 1]:
//
//	+.15 if the input kinds match, then +.30 for an equal input id
//	     (+.10 instead when the ids differ by exactly one, as neighboring
//	     senses and actions tend to be related)
//	+.15 / +.30 / +.10 for the output side, identically
//	+.05 if the weights share a sign
//	+0..+.05 for weight magnitude closeness
func GeneSimilarity(a, b Gene, c Catalog) float64 {
	score := 0.0

	if a.InputIsInner() == b.InputIsInner() {
		score += 0.15
		switch diff := abs(a.InputID(c) - b.InputID(c)); diff {
		case 0:
			score += 0.30
		case 1:
			score += 0.10
		}
	}

	if a.OutputIsAction() == b.OutputIsAction() {
		score += 0.15
		switch diff := abs(a.OutputID(c) - b.OutputID(c)); diff {
		case 0:
			score += 0.30
		case 1:
			score += 0.10
		}
	}

	wa, wb := a.Weight(), b.Weight()
	if (wa > 0) == (wb > 0) {
		score += 0.05
	}
	score += (1 - absf(wa-wb)/8) * 0.05

	return score
}

// GenomeSimilarity returns the mean best-match gene similarity between two
// genomes, in [0, 1]. Each gene of a greedily claims its most similar
// remaining gene of b, so duplicated genes cannot all match one partner.
// Identical genomes short-circuit to 1.
func GenomeSimilarity(a, b Genome, c Catalog) float64 {
	if a.Equal(b) {
		return 1
	}
	if len(a) == 0 {
		return 0
	}

	available := make(Genome, len(b))
	copy(available, b)

	total := 0.0
	for _, gene := range a {
		best := -1
		bestScore := 0.0
		for i, candidate := range available {
			if score := GeneSimilarity(gene, candidate, c); best < 0 || score > bestScore {
				best = i
				bestScore = score
			}
		}
		if best < 0 {
			break
		}
		available = append(available[:best], available[best+1:]...)
		total += bestScore
	}
	return total / float64(len(a))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
