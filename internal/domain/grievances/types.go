package grievances

type Category string

const (
	CategoryPothole     Category = "pothole"
	CategoryStreetlight Category = "streetlight"
	CategoryGarbage     Category = "garbage"
	CategoryWater       Category = "water"
	CategoryDrainage    Category = "drainage"
	CategoryElectricity Category = "electricity"
	CategoryTraffic     Category = "traffic"
	CategoryOther       Category = "other"
)

func Categories() []Category {
	return []Category{
		CategoryPothole, CategoryStreetlight, CategoryGarbage, CategoryWater,
		CategoryDrainage, CategoryElectricity, CategoryTraffic, CategoryOther,
	}
}

func (c Category) Valid() bool {
	for _, x := range Categories() {
		if x == c {
			return true
		}
	}
	return false
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	default:
		return false
	}
}
