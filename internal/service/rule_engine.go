package service

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/phenoage-mcp-server/internal/domain"
)

// InterventionCatalog holds the fixed set of intervention rules keyed by
// display name. Registration order is the enumeration order and drives
// tie-breaking in rankings, so it never changes at runtime.
type InterventionCatalog struct {
	logger *logrus.Logger
	rules  map[string]*domain.InterventionRule
	order  []string
}

// NewInterventionCatalog creates the catalog with all intervention rules
// registered.
func NewInterventionCatalog(logger *logrus.Logger) *InterventionCatalog {
	catalog := &InterventionCatalog{
		logger: logger,
		rules:  make(map[string]*domain.InterventionRule),
	}

	catalog.initializeRules()

	return catalog
}

// List returns the rules in registration order.
func (c *InterventionCatalog) List() []*domain.InterventionRule {
	out := make([]*domain.InterventionRule, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.rules[name])
	}
	return out
}

// Get returns the rule registered under the exact display name.
func (c *InterventionCatalog) Get(name string) (*domain.InterventionRule, error) {
	rule, exists := c.rules[name]
	if !exists {
		return nil, domain.NewUnknownInterventionError(name)
	}
	return rule, nil
}

// Names returns the display names in registration order.
func (c *InterventionCatalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Size returns the number of registered rules.
func (c *InterventionCatalog) Size() int {
	return len(c.rules)
}

func (c *InterventionCatalog) addRule(name string, category domain.InterventionCategory, description string, targets []domain.Biomarker, apply func(domain.BiomarkerSet) domain.BiomarkerSet) {
	c.rules[name] = &domain.InterventionRule{
		Name:        name,
		Category:    category,
		Description: description,
		Targets:     targets,
		Apply:       apply,
	}
	c.order = append(c.order, name)
}

// initializeRules registers the 25 intervention rules. The magnitudes encode
// effect sizes reported in the intervention literature, applied conditionally
// on the baseline value of the targeted biomarker.
func (c *InterventionCatalog) initializeRules() {
	c.addRule("Regular Exercise", domain.LIFESTYLE,
		"Lowers CRP and glucose, trims elevated WBC and lifts a low lymphocyte share",
		[]domain.Biomarker{domain.CRP, domain.GLUCOSE, domain.WBC, domain.LYMPHOCYTE},
		applyRegularExercise)
	c.addRule("Weight Loss", domain.LIFESTYLE,
		"Around 10% body weight loss cuts CRP, glucose and an elevated WBC",
		[]domain.Biomarker{domain.CRP, domain.GLUCOSE, domain.WBC},
		applyWeightLoss)
	c.addRule("Low Allergen Diet", domain.DIET,
		"Anti-inflammatory diet with a modest CRP reduction",
		[]domain.Biomarker{domain.CRP},
		applyLowAllergenDiet)
	c.addRule("Curcumin (500 mg/day)", domain.SUPPLEMENT,
		"Strong CRP reduction when inflammation runs high",
		[]domain.Biomarker{domain.CRP},
		applyCurcumin)
	c.addRule("Omega-3 (1.5–3 g/day)", domain.SUPPLEMENT,
		"Cuts CRP, trims an elevated WBC, supports albumin and lymphocytes",
		[]domain.Biomarker{domain.CRP, domain.WBC, domain.ALBUMIN, domain.LYMPHOCYTE},
		applyOmega3)
	c.addRule("Taurine (3–6 g/day)", domain.SUPPLEMENT,
		"Moderate CRP reduction reported in metabolic studies",
		[]domain.Biomarker{domain.CRP},
		applyTaurine)
	c.addRule("High Protein Intake", domain.DIET,
		"Raises albumin when it is low",
		[]domain.Biomarker{domain.ALBUMIN},
		applyHighProteinIntake)
	c.addRule("Well-Balanced Diet", domain.DIET,
		"Restores low albumin, nudges MCV toward range, small CRP improvement",
		[]domain.Biomarker{domain.ALBUMIN, domain.MCV, domain.CRP},
		applyBalancedDiet)
	c.addRule("Reduce Alcohol", domain.LIFESTYLE,
		"Rebounds a low albumin and lowers an elevated alkaline phosphatase",
		[]domain.Biomarker{domain.ALBUMIN, domain.ALKALINE_PHOSPHATASE},
		applyReduceAlcohol)
	c.addRule("Stop Creatine Supplementation", domain.LIFESTYLE,
		"Removes the supplement-driven creatinine elevation",
		[]domain.Biomarker{domain.CREATININE},
		applyStopCreatine)
	c.addRule("Reduce Red Meat Intake", domain.DIET,
		"Lowers creatinine, more when it runs high",
		[]domain.Biomarker{domain.CREATININE},
		applyReduceRedMeat)
	c.addRule("Reduce Sodium", domain.DIET,
		"Small creatinine improvement under borderline kidney strain",
		[]domain.Biomarker{domain.CREATININE},
		applyReduceSodium)
	c.addRule("Avoid NSAIDs", domain.LIFESTYLE,
		"Relieves NSAID-related creatinine elevation",
		[]domain.Biomarker{domain.CREATININE},
		applyAvoidNSAIDs)
	c.addRule("Avoid Very Heavy Exercise", domain.LIFESTYLE,
		"Prevents transient alkaline phosphatase spikes before testing",
		[]domain.Biomarker{domain.ALKALINE_PHOSPHATASE},
		applyAvoidHeavyExercise)
	c.addRule("Milk Thistle (1 g/day)", domain.SUPPLEMENT,
		"Reduces an elevated alkaline phosphatase",
		[]domain.Biomarker{domain.ALKALINE_PHOSPHATASE},
		applyMilkThistle)
	c.addRule("NAC (1–2 g/day)", domain.SUPPLEMENT,
		"Percentage reduction of an elevated alkaline phosphatase",
		[]domain.Biomarker{domain.ALKALINE_PHOSPHATASE},
		applyNAC)
	c.addRule("Carb & Fat Restriction", domain.DIET,
		"Glucose reduction scaled to the baseline",
		[]domain.Biomarker{domain.GLUCOSE},
		applyCarbFatRestriction)
	c.addRule("Walking After Meals", domain.LIFESTYLE,
		"Small fasting glucose improvement",
		[]domain.Biomarker{domain.GLUCOSE},
		applyPostMealWalk)
	c.addRule("Sauna", domain.LIFESTYLE,
		"Mild glucose drop, short-term boost for a low WBC and lymphocytes",
		[]domain.Biomarker{domain.GLUCOSE, domain.WBC, domain.LYMPHOCYTE},
		applySauna)
	c.addRule("Berberine (500–1000 mg/day)", domain.SUPPLEMENT,
		"Glucose lowering comparable to first-line agents",
		[]domain.Biomarker{domain.GLUCOSE},
		applyBerberine)
	c.addRule("Vitamin B1 (100 mg/day)", domain.SUPPLEMENT,
		"Glucose drop for borderline or high baselines",
		[]domain.Biomarker{domain.GLUCOSE},
		applyVitaminB1)
	c.addRule("Olive Oil (Med Diet)", domain.DIET,
		"Shifts the differential toward lymphocytes when they run low",
		[]domain.Biomarker{domain.LYMPHOCYTE},
		applyOliveOil)
	c.addRule("Mushrooms (Beta-Glucans)", domain.DIET,
		"Raises a low lymphocyte share and a low WBC",
		[]domain.Biomarker{domain.LYMPHOCYTE, domain.WBC},
		applyMushrooms)
	c.addRule("Zinc Supplementation", domain.SUPPLEMENT,
		"Supports low WBC and lymphocyte counts",
		[]domain.Biomarker{domain.WBC, domain.LYMPHOCYTE},
		applyZinc)
	c.addRule("B-Complex (B12/Folate)", domain.SUPPLEMENT,
		"Normalizes an elevated RDW and a macrocytic MCV",
		[]domain.Biomarker{domain.RDW, domain.MCV},
		applyBComplex)

	c.logger.WithField("rules", len(c.rules)).Debug("Initialized intervention catalog")
}

// clamp bounds v to the inclusive range [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func applyRegularExercise(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	crp := out[domain.CRP]
	switch {
	case crp >= 3.0:
		out[domain.CRP] = math.Max(crp-3.0, 0.01)
	case crp >= 1.0:
		out[domain.CRP] = math.Max(crp-1.0, 0.01)
	default:
		out[domain.CRP] = math.Max(crp-0.2, 0.01)
	}

	glu := out[domain.GLUCOSE]
	switch {
	case glu >= 130:
		out[domain.GLUCOSE] = math.Max(glu-15, 70)
	case glu >= 100:
		out[domain.GLUCOSE] = math.Max(glu-7, 70)
	default:
		out[domain.GLUCOSE] = math.Max(glu-3, 70)
	}

	if wbc := out[domain.WBC]; wbc >= 8.0 {
		out[domain.WBC] = math.Max(wbc-1.0, 4.0)
	}

	if lymph := out[domain.LYMPHOCYTE]; lymph < 30 {
		out[domain.LYMPHOCYTE] = clamp(lymph+5, 5, 60)
	}

	return out
}

func applyWeightLoss(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	crp := out[domain.CRP]
	switch {
	case crp >= 5.0:
		out[domain.CRP] = math.Max(crp-2.0, 0.01)
	case crp >= 2.0:
		out[domain.CRP] = math.Max(crp-1.0, 0.01)
	default:
		out[domain.CRP] = math.Max(crp-0.2, 0.01)
	}

	glu := out[domain.GLUCOSE]
	switch {
	case glu >= 130:
		out[domain.GLUCOSE] = math.Max(glu-20, 70)
	case glu >= 100:
		out[domain.GLUCOSE] = math.Max(glu-10, 70)
	default:
		out[domain.GLUCOSE] = math.Max(glu-3, 70)
	}

	if wbc := out[domain.WBC]; wbc > 7.5 {
		out[domain.WBC] = math.Max(wbc-1.0, 4.0)
	}

	return out
}

func applyLowAllergenDiet(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	crp := out[domain.CRP]
	switch {
	case crp >= 3.0:
		out[domain.CRP] = math.Max(crp-1.0, 0.01)
	case crp >= 1.0:
		out[domain.CRP] = math.Max(crp-0.5, 0.01)
	default:
		out[domain.CRP] = math.Max(crp-0.2, 0.01)
	}

	return out
}

func applyCurcumin(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	crp := out[domain.CRP]
	switch {
	case crp >= 3.0:
		out[domain.CRP] = math.Max(crp-3.7, 0.01)
	case crp >= 1.0:
		out[domain.CRP] = math.Max(crp-1.0, 0.01)
	default:
		out[domain.CRP] = math.Max(crp-0.2, 0.01)
	}

	return out
}

func applyOmega3(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	crp := out[domain.CRP]
	switch {
	case crp >= 5.0:
		out[domain.CRP] = math.Max(crp-3.0, 0.01)
	case crp >= 1.0:
		out[domain.CRP] = math.Max(crp-1.0, 0.01)
	default:
		out[domain.CRP] = math.Max(crp-0.3, 0.01)
	}

	if wbc := out[domain.WBC]; wbc >= 8.0 {
		out[domain.WBC] = math.Max(wbc-0.8, 4.0)
	}

	// Albumin can rebound a little when the cause is inflammatory.
	if alb := out[domain.ALBUMIN]; alb < 4.0 {
		out[domain.ALBUMIN] = math.Min(alb+0.2, 5.0)
	}

	if lymph := out[domain.LYMPHOCYTE]; lymph < 30 {
		out[domain.LYMPHOCYTE] = clamp(lymph+3, 5, 60)
	}

	return out
}

func applyTaurine(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	crp := out[domain.CRP]
	switch {
	case crp >= 3.0:
		out[domain.CRP] = math.Max(crp-1.0, 0.01)
	case crp >= 1.0:
		out[domain.CRP] = math.Max(crp-0.4, 0.01)
	default:
		out[domain.CRP] = math.Max(crp-0.1, 0.01)
	}

	return out
}

func applyHighProteinIntake(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	if alb := out[domain.ALBUMIN]; alb < 4.0 {
		out[domain.ALBUMIN] = math.Min(alb+0.3, 5.0)
	}

	return out
}

func applyBalancedDiet(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	if alb := out[domain.ALBUMIN]; alb < 4.0 {
		out[domain.ALBUMIN] = math.Min(alb+0.5, 5.0)
	}

	// Nudge MCV toward the reference range from either side.
	mcv := out[domain.MCV]
	if mcv < 80 {
		out[domain.MCV] = math.Min(mcv+5, 80)
	} else if mcv > 100 {
		out[domain.MCV] = math.Max(mcv-5, 100)
	}

	out[domain.CRP] = math.Max(out[domain.CRP]-0.3, 0.01)

	return out
}

func applyReduceAlcohol(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	if alb := out[domain.ALBUMIN]; alb < 4.0 {
		out[domain.ALBUMIN] = math.Min(alb+0.5, 5.0)
	}

	alp := out[domain.ALKALINE_PHOSPHATASE]
	if alp > 120 {
		out[domain.ALKALINE_PHOSPHATASE] = math.Max(alp-40, 50)
	} else if alp > 100 {
		out[domain.ALKALINE_PHOSPHATASE] = math.Max(alp-20, 50)
	}

	return out
}

func applyStopCreatine(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()
	out[domain.CREATININE] = math.Max(out[domain.CREATININE]-0.25, 0.6)
	return out
}

func applyReduceRedMeat(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	creat := out[domain.CREATININE]
	if creat >= 1.2 {
		out[domain.CREATININE] = math.Max(creat-0.3, 0.6)
	} else {
		out[domain.CREATININE] = math.Max(creat-0.1, 0.6)
	}

	return out
}

func applyReduceSodium(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	creat := out[domain.CREATININE]
	if creat >= 1.2 {
		out[domain.CREATININE] = math.Max(creat-0.2, 0.6)
	} else {
		out[domain.CREATININE] = math.Max(creat-0.1, 0.6)
	}

	return out
}

func applyAvoidNSAIDs(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()
	out[domain.CREATININE] = math.Max(out[domain.CREATININE]-0.2, 0.6)
	return out
}

func applyAvoidHeavyExercise(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	alp := out[domain.ALKALINE_PHOSPHATASE]
	if alp > 100 {
		out[domain.ALKALINE_PHOSPHATASE] = math.Max(alp*0.85, 50)
	} else {
		out[domain.ALKALINE_PHOSPHATASE] = math.Max(alp-5, 30)
	}

	return out
}

func applyMilkThistle(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	alp := out[domain.ALKALINE_PHOSPHATASE]
	if alp >= 130 {
		out[domain.ALKALINE_PHOSPHATASE] = math.Max(alp-30, 50)
	} else if alp >= 100 {
		out[domain.ALKALINE_PHOSPHATASE] = math.Max(alp-20, 50)
	}

	return out
}

func applyNAC(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	alp := out[domain.ALKALINE_PHOSPHATASE]
	if alp >= 120 {
		out[domain.ALKALINE_PHOSPHATASE] = math.Max(alp*0.85, 50)
	} else if alp >= 100 {
		out[domain.ALKALINE_PHOSPHATASE] = math.Max(alp*0.90, 50)
	}

	return out
}

func applyCarbFatRestriction(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	glu := out[domain.GLUCOSE]
	switch {
	case glu >= 130:
		out[domain.GLUCOSE] = math.Max(glu-15, 70)
	case glu >= 100:
		out[domain.GLUCOSE] = math.Max(glu-10, 70)
	default:
		out[domain.GLUCOSE] = math.Max(glu-3, 70)
	}

	return out
}

func applyPostMealWalk(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	glu := out[domain.GLUCOSE]
	if glu > 100 {
		out[domain.GLUCOSE] = math.Max(glu-5, 70)
	} else {
		out[domain.GLUCOSE] = math.Max(glu-2, 70)
	}

	return out
}

func applySauna(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	out[domain.GLUCOSE] = math.Max(out[domain.GLUCOSE]-4, 70)

	// Transient immune stimulation only matters when counts are low.
	if wbc := out[domain.WBC]; wbc < 4.0 {
		out[domain.WBC] = wbc + 0.5
	}
	if lymph := out[domain.LYMPHOCYTE]; lymph < 30 {
		out[domain.LYMPHOCYTE] = clamp(lymph+5, 5, 60)
	}

	return out
}

func applyBerberine(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	glu := out[domain.GLUCOSE]
	switch {
	case glu >= 130:
		out[domain.GLUCOSE] = math.Max(glu-15, 70)
	case glu >= 100:
		out[domain.GLUCOSE] = math.Max(glu-10, 70)
	default:
		out[domain.GLUCOSE] = math.Max(glu-3, 70)
	}

	return out
}

func applyVitaminB1(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	glu := out[domain.GLUCOSE]
	if glu >= 130 {
		out[domain.GLUCOSE] = math.Max(glu-10, 70)
	} else if glu >= 100 {
		out[domain.GLUCOSE] = math.Max(glu-5, 70)
	}

	return out
}

func applyOliveOil(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	if lymph := out[domain.LYMPHOCYTE]; lymph < 35 {
		out[domain.LYMPHOCYTE] = clamp(lymph+3, 5, 60)
	}

	return out
}

func applyMushrooms(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	if lymph := out[domain.LYMPHOCYTE]; lymph < 35 {
		out[domain.LYMPHOCYTE] = clamp(lymph+7, 5, 60)
	}
	if wbc := out[domain.WBC]; wbc < 4.0 {
		out[domain.WBC] = wbc + 0.8
	}

	return out
}

func applyZinc(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	if wbc := out[domain.WBC]; wbc < 4.0 {
		out[domain.WBC] = wbc + 0.5
	}
	if lymph := out[domain.LYMPHOCYTE]; lymph < 30 {
		out[domain.LYMPHOCYTE] = clamp(lymph+5, 5, 60)
	}

	return out
}

func applyBComplex(set domain.BiomarkerSet) domain.BiomarkerSet {
	out := set.Copy()

	// B12/folate repletion collapses an elevated RDW toward normal.
	rdw := out[domain.RDW]
	if rdw >= 18.0 {
		out[domain.RDW] = 14.0
	} else if rdw >= 15.0 {
		out[domain.RDW] = 13.5
	}

	if mcv := out[domain.MCV]; mcv >= 100 {
		out[domain.MCV] = math.Max(mcv-10, 80)
	}

	return out
}
