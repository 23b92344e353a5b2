package urbansound

// NumClasses is the number of UrbanSound8K classes
const NumClasses = 10

// classTable maps class label to class name
var classTable = [NumClasses]string{
	0: "air_conditioner",
	1: "car_horn",
	2: "children_playing",
	3: "dog_bark",
	4: "drilling",
	5: "engine_idling",
	6: "gun_shot",
	7: "jackhammer",
	8: "siren",
	9: "street_music",
}

// ClassName returns the name of label, or false if label is not a known class.
func ClassName(label int) (string, bool) {
	if label < 0 || label >= NumClasses {
		return "", false
	}
	return classTable[label], true
}

// Classes returns a copy of the class table indexed by label.
func Classes() []string {
	out := make([]string, NumClasses)
	copy(out, classTable[:])
	return out
}
