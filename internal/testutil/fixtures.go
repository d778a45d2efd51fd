package testutil

import "github.com/mobil-koeln/roamly/internal/models"

// SampleDestinationsJSON is a small but complete destinations document
const SampleDestinationsJSON = `{
	"destinations": [
		{
			"id": 1,
			"type": "plane",
			"start": [52.1672, 20.9679],
			"coords": [35.8989, 14.5146],
			"name": "Malta",
			"date": "May 2023",
			"description": "Limestone cliffs and blue lagoons.",
			"imageUrl": "/images/malta.jpg"
		},
		{
			"id": 2,
			"type": "train",
			"start": [52.2297, 21.0122],
			"coords": [50.0647, 19.9450],
			"name": "Kraków",
			"date": "October 2022",
			"description": "Old town and Wawel castle."
		},
		{
			"id": 3,
			"type": "car",
			"start": [52.2297, 21.0122],
			"coords": [54.3520, 18.6466],
			"name": "Gdańsk",
			"date": "July 2023",
			"description": "Baltic coast road trip.",
			"videoUrl": "/videos/gdansk.mp4"
		}
	]
}`

// Malta is a flight from Warsaw Chopin to Malta
func Malta() models.Destination {
	return models.Destination{
		ID:          1,
		Kind:        models.KindPlane,
		Start:       models.LatLng(52.1672, 20.9679),
		End:         models.LatLng(35.8989, 14.5146),
		Name:        "Malta",
		Date:        "May 2023",
		Description: "Limestone cliffs and blue lagoons.",
		ImageURL:    "/images/malta.jpg",
	}
}

// Krakow is a train ride from Warsaw to Kraków
func Krakow() models.Destination {
	return models.Destination{
		ID:          2,
		Kind:        models.KindTrain,
		Start:       models.LatLng(52.2297, 21.0122),
		End:         models.LatLng(50.0647, 19.9450),
		Name:        "Kraków",
		Date:        "October 2022",
		Description: "Old town and Wawel castle.",
	}
}

// Gdansk is a drive from Warsaw to Gdańsk
func Gdansk() models.Destination {
	return models.Destination{
		ID:          3,
		Kind:        models.KindCar,
		Start:       models.LatLng(52.2297, 21.0122),
		End:         models.LatLng(54.3520, 18.6466),
		Name:        "Gdańsk",
		Date:        "July 2023",
		Description: "Baltic coast road trip.",
		VideoURL:    "/videos/gdansk.mp4",
	}
}

// SampleDestinations returns the destinations encoded in SampleDestinationsJSON
func SampleDestinations() []models.Destination {
	return []models.Destination{Malta(), Krakow(), Gdansk()}
}
