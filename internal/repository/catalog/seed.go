package catalog

var SeedVideos = []VideoRecord{
	{
		Id:          "tokyo-360",
		Title:       "Tokyo Street View 360°",
		Description: "Experience the bustling streets of Shibuya and explore Tokyo's urban landscape in immersive 360° video.",
		Duration:    "15:30",
		Location:    "Tokyo, Japan",
		Thumbnail:   "/thumbnails/tokyo-360.jpg",
		Src:         "https://cdn.aframe.io/360-image-gallery-boilerplate/img/city.jpg",
		Views:       1250,
		Likes:       89,
		CreatedAt:   "2024-01-15T10:00:00Z",
	},
	{
		Id:          "paris-360",
		Title:       "Paris Landmarks 360°",
		Description: "Tour the iconic landmarks of Paris including the Eiffel Tower, Louvre, and Notre-Dame in stunning 360° detail.",
		Duration:    "12:45",
		Location:    "Paris, France",
		Thumbnail:   "/thumbnails/paris-360.jpg",
		Src:         "https://cdn.aframe.io/360-image-gallery-boilerplate/img/cubes.jpg",
		Views:       2100,
		Likes:       156,
		CreatedAt:   "2024-01-10T14:30:00Z",
	},
	{
		Id:          "bali-360",
		Title:       "Bali Beaches 360°",
		Description: "Relax on the pristine beaches of Bali and experience the tropical paradise in immersive 360° video.",
		Duration:    "18:20",
		Location:    "Bali, Indonesia",
		Thumbnail:   "/thumbnails/bali-360.jpg",
		Src:         "https://cdn.aframe.io/360-image-gallery-boilerplate/img/sechelt.jpg",
		Views:       890,
		Likes:       67,
		CreatedAt:   "2024-01-20T09:15:00Z",
	},
	{
		Id:          "nyc-360",
		Title:       "New York City 360°",
		Description: "Explore the concrete jungle of Manhattan and experience the energy of NYC in 360° video.",
		Duration:    "14:10",
		Location:    "New York, USA",
		Thumbnail:   "/thumbnails/nyc-360.jpg",
		Src:         "https://ucarecdn.com/bcece0ea-7b99-4c47-8e9f-5c1a4b2c6b84/",
		Views:       1680,
		Likes:       124,
		CreatedAt:   "2024-01-08T16:45:00Z",
	},
	{
		Id:          "iceland-360",
		Title:       "Iceland Northern Lights 360°",
		Description: "Witness the magical Aurora Borealis dancing across Iceland's pristine landscapes in breathtaking 360° video.",
		Duration:    "20:15",
		Location:    "Iceland",
		Thumbnail:   "/thumbnails/iceland-360.jpg",
		Src:         "https://cdn.aframe.io/360-image-gallery-boilerplate/img/forest.jpg",
		Views:       3200,
		Likes:       245,
		CreatedAt:   "2024-01-25T11:20:00Z",
	},
	{
		Id:          "maldives-360",
		Title:       "Maldives Underwater 360°",
		Description: "Dive into the crystal-clear waters of the Maldives and explore vibrant coral reefs in immersive 360° underwater footage.",
		Duration:    "16:40",
		Location:    "Maldives",
		Thumbnail:   "/thumbnails/maldives-360.jpg",
		Src:         "https://cdn.aframe.io/360-image-gallery-boilerplate/img/puydesancy.jpg",
		Views:       1890,
		Likes:       178,
		CreatedAt:   "2024-01-18T13:45:00Z",
	},
}
