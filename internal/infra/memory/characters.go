package memory

import "brainrot-quiz-service/internal/domain"

func character(id, name, description string) domain.Character {
	return domain.Character{ID: id, Name: name, Description: description, ImageRef: name + ".webp"}
}

// DefaultCharacters is the built-in catalog used when no database is configured.
func DefaultCharacters() []domain.Character {
	return []domain.Character{
		character("tralalero", "Tralalero Tralala", "A shark in Nike sneakers that controls waves and runs fast."),
		character("bombardiro", "Bombardiro Crocodilo", "A crocodile fused with a bomber plane."),
		character("bombombini", "Bombombini Gusini", "A goose fused with a jet fighter, brother of Bombardiro."),
		character("tripi", "Tripi Tropi", "Half shrimp, half cat, with sonic meows."),
		character("burbaloni", "Burbaloni Luliloli", "A capybara living inside a coconut."),
		character("tracotocutulo", "Tracotocutulo Lirilì Larilà", "A cactus elephant in sandals who can stop time."),
		character("brr", "Brr Brr Patapim", "A forest guardian with wooden limbs and a proboscis monkey head."),
		character("trulimero", "Trulimero Trulicina", "A fish with a cat head and four human legs."),
		character("frigo", "Frigo Camello", "A camel with a refrigerator body that breathes cold air."),
		character("frulli", "Frulli Frulla", "A goggled bird that loves coffee."),
		character("vaca", "La Vaca Saturno Saturnita", "A cow head on a Saturn body that spreads happiness."),
		character("bobritto", "Bobritto Bandito", "A gangster beaver with a tommy gun."),
		character("giraffa", "Giraffa Celeste", "A watermelon space giraffe that spits seeds."),
		character("cappuccino", "Cappuccino Assassino", "A cappuccino cup armed with a katana."),
		character("glorbo", "Glorbo Fruttodrillo", "A watermelon with a crocodile head and legs."),
		character("blueberrinni", "Blueberrinni Octopussini", "An octopus whose upper body is a blueberry."),
		character("svinino", "Svinino Bombondino", "A pig fused with a bomb."),
		character("ballerina", "Ballerina Cappuccina", "A ballerina with a cappuccino head, wife of Cappuccino Assassino."),
		character("brii", "Brii Brii Bicus Dicus Bombicus", "A small proud bird in centurion armor."),
		character("talpa", "Talpa Di Ferro", "A cyborg mole with a drill nose."),
		character("cacto", "Il Cacto Hipopotamo", "A cactus hippo in sandals."),
		character("chef", "Chef Crabracadabra", "A cursed crab chef who opens portals."),
		character("chimpanzini", "Chimpanzini Bananini", "A green chimp hiding inside a banana."),
		character("garamaraman", "Garamaraman dan Madudungdung tak tuntung perkuntung", "A salt shaker and a honey jar with human faces."),
		character("pothotspot", "Pot hotspot", "A skeleton phone that always asks for a hotspot."),
		character("tung", "Tung Tung Tung Tung Tung Tung Tung Tung Tung Sahur", "A wooden figure with a baseball bat."),
		character("tata", "Ta Ta Ta Ta Ta Ta Ta Ta Ta Ta Ta Sahur", "A crying kettle that kicks hard."),
		character("udin", "U Din Din Din Din Dun Ma Din Din Din Dun", "A singer with a catchy repeating melody."),
		character("trippa", "Troppa Trippa", "An upside-down character who sees the world reversed."),
		character("boneca", "Boneca Ambalabu", "A frog head on a tire body with human legs."),
		character("bombardiere", "Bombardiere Lucertola", "A lizard fused with a bomber plane."),
		character("trippatroppa", "Trippa Troppa Tralala Lirilì Rilà Tung Tung Sahur Boneca Tung Tung Tralalelo Trippi Troppa Crocodina", "The fusion of the six most famous characters."),
	}
}
