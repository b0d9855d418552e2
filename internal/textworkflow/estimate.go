package textworkflow

import "github.com/codeready-toolchain/tarsy/internal/graph"

// complexityForKind and qualityForKind feed each node's routing
// request signal, grounded on the original implementation's fixed
// per-kind complexity/quality table.
func complexityForKind(kind graph.NodeKind) int {
	switch kind {
	case graph.KindPlanner:
		return 8
	case graph.KindGenerator:
		return 7
	case graph.KindToolCall:
		return 5
	case graph.KindCritic:
		return 7
	case graph.KindRefiner:
		return 6
	case graph.KindReviewGate:
		return 5
	case graph.KindMerge:
		return 6
	default:
		return 5
	}
}

func qualityForKind(kind graph.NodeKind) int {
	switch kind {
	case graph.KindPlanner:
		return 8
	case graph.KindGenerator:
		return 7
	case graph.KindToolCall:
		return 5
	case graph.KindCritic:
		return 8
	case graph.KindRefiner:
		return 7
	case graph.KindReviewGate:
		return 6
	case graph.KindMerge:
		return 6
	default:
		return 5
	}
}

// estimateNodeTokens returns (input, output) token estimates for one
// node, scaling the generator's estimate for ad-variant-pack workflows
// by the requested variant count.
func estimateNodeTokens(kind graph.NodeKind, workflowKind WorkflowKind, variantCount int) (int64, int64) {
	switch kind {
	case graph.KindPlanner:
		return 900, 260
	case graph.KindGenerator:
		if workflowKind == KindAdVariantPack {
			variants := int64(variantCount)
			if variants < 1 {
				variants = 1
			}
			return 1300 + variants*90, 500 + variants*110
		}
		return 1300, 680
	case graph.KindToolCall:
		return 600, 220
	case graph.KindCritic:
		return 1100, 420
	case graph.KindRefiner:
		return 1000, 460
	case graph.KindReviewGate:
		return 700, 180
	case graph.KindMerge:
		return 900, 320
	default:
		return 500, 200
	}
}
