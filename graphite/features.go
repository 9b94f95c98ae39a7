package graphite

// FeatureRef describes one feature defined by a font's Feat table: its
// id, its default setting value, and the number of discrete settings it
// supports (§4.1).
type FeatureRef struct {
	ID           Tag
	Name         string
	Default      int16
	NumSettings  uint16
}

// clampedValue coerces val into the range this feature's settings
// support, matching the Feat table's declared setting count.
func (f FeatureRef) clampedValue(val int16) int16 {
	if f.NumSettings == 0 {
		return val
	}
	max := int16(f.NumSettings) - 1
	if val < 0 {
		return 0
	}
	if val > max {
		return max
	}
	return val
}

// FeatureMap is the font's feature catalogue, parsed once from the Feat
// table and owned by Face.
type FeatureMap struct {
	byID map[Tag]FeatureRef
	ids  []Tag // preserves declaration order, for FeatureMap.Feature(i)
}

func newFeatureMap() FeatureMap {
	return FeatureMap{byID: map[Tag]FeatureRef{}}
}

func (fm *FeatureMap) add(ref FeatureRef) {
	if _, exists := fm.byID[ref.ID]; !exists {
		fm.ids = append(fm.ids, ref.ID)
	}
	fm.byID[ref.ID] = ref
}

// Ref looks up a feature by id.
func (fm FeatureMap) Ref(id Tag) (FeatureRef, bool) {
	ref, ok := fm.byID[id]
	return ref, ok
}

// NumFeatures reports how many features the font declares.
func (fm FeatureMap) NumFeatures() int { return len(fm.ids) }

// Feature returns the i'th declared feature, in declaration order.
func (fm FeatureMap) Feature(i int) (FeatureRef, bool) {
	if i < 0 || i >= len(fm.ids) {
		return FeatureRef{}, false
	}
	return fm.byID[fm.ids[i]], true
}

// DefaultFeatures builds a FeaturesValue holding every font feature at
// its declared default setting.
func (fm FeatureMap) DefaultFeatures() FeaturesValue {
	fv := make(FeaturesValue, 0, len(fm.ids))
	for _, id := range fm.ids {
		ref := fm.byID[id]
		fv = append(fv, featureSetting{ID: ref.ID, Value: ref.Default})
	}
	return fv
}

type featureSetting struct {
	ID    Tag
	Value int16
}

// FeaturesValue is an active feature-value vector: one (id, value) pair
// per feature the host chose to override, plus whatever DefaultFeatures
// filled in. It is small enough to copy by value, the way §4.1's
// feature-set index into a segment's FeatureList implies.
type FeaturesValue []featureSetting

// findFeature returns the active setting for id, if the vector carries
// one.
func (fv FeaturesValue) findFeature(id Tag) (featureSetting, bool) {
	for _, f := range fv {
		if f.ID == id {
			return f, true
		}
	}
	return featureSetting{}, false
}

// WithValue returns a copy of fv with id set to value (clamped against
// fm's declared setting count), adding the pair if absent.
func (fv FeaturesValue) WithValue(fm FeatureMap, id Tag, value int16) FeaturesValue {
	if ref, ok := fm.Ref(id); ok {
		value = ref.clampedValue(value)
	}
	out := make(FeaturesValue, len(fv))
	copy(out, fv)
	for i := range out {
		if out[i].ID == id {
			out[i].Value = value
			return out
		}
	}
	return append(out, featureSetting{ID: id, Value: value})
}
