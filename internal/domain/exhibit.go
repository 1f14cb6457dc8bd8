package domain

// DefaultCatalog is the exhibit shipped with the guide.
func DefaultCatalog() Catalog {
	return Catalog{Artifacts: []Artifact{
		newArtifact("helmet", "Royal War Helmet",
			"A damaged ceremonial helmet. Notice the dent on the left side, indicating heavy combat usage in the 16th century.",
			Quiz{Question: "What century is this helmet from?", Answer: "16th", Options: []string{"12th Century", "16th Century", "19th Century"}}),
		newArtifact("camera", "Antique Camera",
			"An early 20th-century folding camera. This revolutionized personal photography with its bellows mechanism.",
			Quiz{Question: "What part of this camera folds?", Answer: "Bellows", Options: []string{"The Lens", "The Flash", "The Bellows"}}),
		newArtifact("lantern", "Old Lantern",
			"An oil-based lantern used for lighting before electricity. Commonly used by miners and travelers.",
			Quiz{Question: "What fuel did this use?", Answer: "Oil", Options: []string{"Battery", "Oil", "Solar"}}),
		newArtifact("engine", "2-Cylinder Engine",
			"A classic internal combustion engine. It converts chemical energy into mechanical energy.",
			Quiz{Question: "What does it convert?", Answer: "Energy", Options: []string{"Water", "Energy", "Data"}}),
		newArtifact("dragon", "Mythical Dragon",
			"A glasswork statue of a legendary creature. Dragons appear in the folklore of many cultures around the world.",
			Quiz{Question: "Is this creature real?", Answer: "Mythical", Options: []string{"Real", "Mythical", "Extinct"}}),
		newArtifact("waterbottle", "Water Bottle",
			"A reusable water container. Essential for hydration during long expeditions.",
			Quiz{Question: "What is it for?", Answer: "Hydration", Options: []string{"Cooking", "Hydration", "Decoration"}}),
	}}
}

func newArtifact(key, name, description string, quiz Quiz) Artifact {
	return Artifact{
		Key:         key,
		Name:        name,
		Description: description,
		EntityID:    "entity-" + key,
		MarkerID:    "marker-" + key,
		Quiz:        quiz,
	}
}
