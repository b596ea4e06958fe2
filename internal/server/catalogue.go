package server

// condition is one label the development service can report.
type condition struct {
	PlantType string
	Disease   string
	Treatment string
}

// catalogue covers the three crops the client asks users to photograph.
var catalogue = []condition{
	{"Tomato", "Healthy", "No treatment needed. Keep watering at the base and monitor weekly."},
	{"Tomato", "Early Blight", "Remove affected lower leaves, mulch the soil and apply a copper or chlorothalonil fungicide."},
	{"Tomato", "Late Blight", "Destroy infected plants, avoid overhead watering and apply a protectant fungicide to neighbours."},
	{"Tomato", "Leaf Mold", "Increase ventilation, reduce humidity and remove infected foliage."},
	{"Tomato", "Septoria Leaf Spot", "Prune lower leaves, rotate crops and apply a fungicide at first sign."},
	{"Tomato", "Bacterial Spot", "Use disease-free seed, avoid working wet plants and apply copper sprays."},
	{"Tomato", "Yellow Leaf Curl Virus", "Control whiteflies, remove infected plants and use resistant varieties."},
	{"Potato", "Healthy", "No treatment needed. Hill the soil and keep foliage dry."},
	{"Potato", "Early Blight", "Rotate crops, remove debris and apply a fungicide when lesions appear."},
	{"Potato", "Late Blight", "Destroy infected haulms, harvest in dry weather and apply a systemic fungicide."},
	{"Pepper", "Healthy", "No treatment needed. Maintain even moisture."},
	{"Pepper", "Bacterial Spot", "Remove infected leaves, avoid overhead irrigation and apply copper-based bactericide."},
}
