package knowledge

// Default is the built-in fact sheet of Bistro Nova.
func Default() *Base {
	const phone = "+41 21 555 12 34"
	const parking = "Parkings St-François et Rôtillon à 5 minutes à pied."
	return &Base{
		Name:  "Bistro Nova",
		Phone: phone,
		Entries: []Entry{
			{TopicHours, []string{"horaire*", "ouvert*", "ouvre*", "ferme", "fermes", "opening", "open", "hours"},
				"Ouvert du mardi au dimanche, 11h30 à 14h30 et 18h30 à 22h30. Fermé le lundi."},
			{TopicAddress, []string{"adresse*", "address", "ou se trouve", "ou etes vous", "ou vous trouvez", "localis*", "where"},
				"Rue du Marché 24, 1003 Lausanne. " + parking},
			{TopicGlutenFree, []string{"gluten*", "coeliaque*", "celiaque*"},
				"Oui, plusieurs plats sans gluten. Demandez au service : nous adaptons si possible."},
			{TopicVegetarian, []string{"vegetar*", "vegan*", "vegetalien*"},
				"Oui, options végétariennes et un plat vegan du moment."},
			{TopicHalal, []string{"halal", "casher", "kasher", "kosher"},
				"Viandes non certifiées halal ; plats végétariens disponibles."},
			{TopicAllergens, []string{"allerg*"},
				"Allergènes indiqués sur la carte. Options sans gluten et végétariennes."},
			{TopicPrice, []string{"prix", "tarif*", "cher", "chere", "combien ca coute", "price*", "cost*"},
				"Entrées 10 à 18 francs, plats 22 à 42 francs, desserts 9 à 14 francs."},
			{TopicParking, []string{"parking*", "garer", "stationn*", "park"},
				parking},
			{TopicPayment, []string{"paiement*", "payer", "payez", "carte bancaire", "carte de credit", "cartes de credit", "twint", "especes", "cash", "visa", "mastercard"},
				"Cartes Visa, Mastercard, Amex, Maestro. Twint et espèces acceptés."},
			{TopicTerrace, []string{"terrasse*", "terrace", "dehors"},
				"Terrasse ouverte aux beaux jours, sans réservation spécifique."},
			{TopicPets, []string{"chien*", "animal", "animaux", "chat", "chats", "dog*", "pets"},
				"Chiens acceptés en terrasse, en salle selon affluence."},
			{TopicKids, []string{"enfant*", "bebe*", "poussette*", "chaise haute", "kid*", "children"},
				"Chaises hautes et menus enfants disponibles."},
			{TopicWifi, []string{"wifi", "wi fi", "internet"},
				"Wi-Fi gratuit sur place."},
			{TopicAccess, []string{"pmr", "fauteuil*", "handicap*", "accessib*", "wheelchair"},
				"Accès PMR disponible, toilettes adaptées."},
			{TopicDelivery, []string{"livr*", "emporter", "ubereats", "uber eats", "smood", "takeaway", "delivery"},
				"Pas de livraison. À emporter midi et soir sur commande."},
			{TopicAlcohol, []string{"alcool*", "vin", "vins", "biere*", "cocktail*", "wine*", "beer*"},
				"Carte des vins et bières artisanales. Cocktails maison."},
			{TopicContact, []string{"contact*", "telephone", "mail", "email", "e mail", "joindre"},
				"Vous pouvez nous joindre au " + phone + "."},
		},
		ReservationKeywords: defaultReservationKeywords(),
	}
}

func defaultReservationKeywords() []string {
	return []string{"reserv*", "table", "book*"}
}
