package backward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/medex/pkg/medex/inference"
)

func coldKB(t *testing.T) *inference.KnowledgeBase {
	t.Helper()
	kb := inference.NewKnowledgeBase()
	kb.Tell(inference.Fact("CommonCold", "Fever"))
	kb.Tell(inference.Fact("CommonCold", "Cough"))
	require.NoError(t, kb.TellText("CommonCold(Fever) & CommonCold(Cough) ==> CommonCold(x)"))
	return kb
}

func TestProveFactsInInsertionOrder(t *testing.T) {
	r := New(coldKB(t))
	x := inference.Var("x")

	sols := r.Solutions(inference.NewAtom("CommonCold", x), 0)
	require.Len(t, sols, 3, "two facts plus one rule proof")

	v, ok := sols[0].Lookup(x)
	require.True(t, ok)
	assert.Equal(t, inference.Const("Fever"), v)

	v, ok = sols[1].Lookup(x)
	require.True(t, ok)
	assert.Equal(t, inference.Const("Cough"), v)

	// the rule leaves x unbound
	_, ok = sols[2].Lookup(x)
	assert.False(t, ok)
}

func TestProveGroundGoal(t *testing.T) {
	r := New(coldKB(t))

	assert.True(t, r.Provable(inference.NewAtom("CommonCold", inference.Const("Fever"))))
	// Headache is not a fact, but the rule concludes CommonCold(x) for any x
	assert.True(t, r.Provable(inference.NewAtom("CommonCold", inference.Const("Headache"))))
}

func TestProveUnknownPredicateIsEmpty(t *testing.T) {
	r := New(coldKB(t))

	assert.False(t, r.Provable(inference.NewAtom("Scurvy", inference.Var("x"))))
	assert.Empty(t, r.Solutions(inference.NewAtom("Scurvy", inference.Var("x")), 0))
}

func TestProveFailingPremise(t *testing.T) {
	kb := inference.NewKnowledgeBase()
	kb.Tell(inference.Fact("Bronchitis", "Fever"))
	require.NoError(t, kb.TellText("Wheezy(Wheezing) ==> Bronchitis(x)"))

	r := New(kb)
	sols := r.Solutions(inference.NewAtom("Bronchitis", inference.Var("x")), 0)
	require.Len(t, sols, 1, "rule premise can never be proved")
}

func TestProveChainsThroughRules(t *testing.T) {
	kb := inference.NewKnowledgeBase()
	kb.Tell(inference.Fact("Observed", "Fever"))
	require.NoError(t, kb.TellText("Observed(x) ==> Febrile(x)"))
	require.NoError(t, kb.TellText("Febrile(y) ==> Sick(y)"))

	r := New(kb)
	x := inference.Var("x")
	sols := r.Solutions(inference.NewAtom("Sick", x), 0)
	require.Len(t, sols, 1)

	v, ok := sols[0].Lookup(x)
	require.True(t, ok)
	assert.Equal(t, inference.Const("Fever"), v)
}

func TestProveStandardizesApart(t *testing.T) {
	// Rule and goal share the variable name x; they must not capture each other.
	kb := inference.NewKnowledgeBase()
	kb.Tell(inference.Fact("P", "A"))
	kb.Tell(inference.Fact("Q", "B"))
	require.NoError(t, kb.TellText("P(x) & Q(y) ==> R(y)"))

	r := New(kb)
	x := inference.Var("x")
	sols := r.Solutions(inference.NewAtom("R", x), 0)
	require.Len(t, sols, 1)

	v, ok := sols[0].Lookup(x)
	require.True(t, ok)
	assert.Equal(t, inference.Const("B"), v)
}

func TestProveIsRestartableAndLazy(t *testing.T) {
	r := New(coldKB(t))
	seq := r.Prove(inference.NewAtom("CommonCold", inference.Var("x")))

	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	assert.Equal(t, first, second)

	taken := 0
	for range seq {
		taken++
		break
	}
	assert.Equal(t, 1, taken)
}

func TestProveTerminatesOnSelfReference(t *testing.T) {
	kb := inference.NewKnowledgeBase()
	kb.Tell(inference.Fact("Hypertension", "Fatigue"))
	kb.Tell(inference.Fact("Hypertension", "Headache"))
	kb.Tell(inference.Fact("Hypertension", "Hypertension"))
	require.NoError(t, kb.TellText("Hypertension(Fatigue) & Hypertension(Headache) & Hypertension(Hypertension) ==> Hypertension(x)"))
	require.NoError(t, kb.TellText("Loop(x) ==> Loop(x)"))

	r := New(kb)
	assert.Len(t, r.Solutions(inference.NewAtom("Hypertension", inference.Var("x")), 0), 4)
	assert.Empty(t, r.Solutions(inference.NewAtom("Loop", inference.Var("x")), 0))
}

func TestProveDoesNotMutateKnowledgeBase(t *testing.T) {
	kb := coldKB(t)
	before := make([]string, 0, kb.Len())
	for _, rule := range kb.RulesFor("CommonCold") {
		before = append(before, rule.String())
	}

	New(kb).Solutions(inference.NewAtom("CommonCold", inference.Var("x")), 0)

	after := make([]string, 0, kb.Len())
	for _, rule := range kb.RulesFor("CommonCold") {
		after = append(after, rule.String())
	}
	assert.Equal(t, before, after)
}

func TestSolutionsLimit(t *testing.T) {
	r := New(coldKB(t))
	assert.Len(t, r.Solutions(inference.NewAtom("CommonCold", inference.Var("x")), 2), 2)
}
