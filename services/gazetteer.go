package services

// Static gazetteer of major Indian cities with coordinates. Lookups here are
// deterministic and avoid network calls for common inputs; the online
// geocoder is only consulted when no entry matches.
var indianCities = map[string]GeocodedLocation{
	// Major metros
	"mumbai":    {Latitude: 19.0760, Longitude: 72.8777, City: "Mumbai", State: "Maharashtra", Country: "India"},
	"delhi":     {Latitude: 28.6139, Longitude: 77.2090, City: "Delhi", State: "Delhi", Country: "India"},
	"bangalore": {Latitude: 12.9716, Longitude: 77.5946, City: "Bangalore", State: "Karnataka", Country: "India"},
	"bengaluru": {Latitude: 12.9716, Longitude: 77.5946, City: "Bengaluru", State: "Karnataka", Country: "India"},
	"hyderabad": {Latitude: 17.3850, Longitude: 78.4867, City: "Hyderabad", State: "Telangana", Country: "India"},
	"chennai":   {Latitude: 13.0827, Longitude: 80.2707, City: "Chennai", State: "Tamil Nadu", Country: "India"},
	"kolkata":   {Latitude: 22.5726, Longitude: 88.3639, City: "Kolkata", State: "West Bengal", Country: "India"},
	"pune":      {Latitude: 18.5204, Longitude: 73.8567, City: "Pune", State: "Maharashtra", Country: "India"},

	// State capitals and major cities
	"ahmedabad":        {Latitude: 23.0225, Longitude: 72.5714, City: "Ahmedabad", State: "Gujarat", Country: "India"},
	"surat":            {Latitude: 21.1702, Longitude: 72.8311, City: "Surat", State: "Gujarat", Country: "India"},
	"jaipur":           {Latitude: 26.9124, Longitude: 75.7873, City: "Jaipur", State: "Rajasthan", Country: "India"},
	"lucknow":          {Latitude: 26.8467, Longitude: 80.9462, City: "Lucknow", State: "Uttar Pradesh", Country: "India"},
	"kanpur":           {Latitude: 26.4499, Longitude: 80.3319, City: "Kanpur", State: "Uttar Pradesh", Country: "India"},
	"nagpur":           {Latitude: 21.1458, Longitude: 79.0882, City: "Nagpur", State: "Maharashtra", Country: "India"},
	"indore":           {Latitude: 22.7196, Longitude: 75.8577, City: "Indore", State: "Madhya Pradesh", Country: "India"},
	"thane":            {Latitude: 19.2183, Longitude: 72.9781, City: "Thane", State: "Maharashtra", Country: "India"},
	"bhopal":           {Latitude: 23.2599, Longitude: 77.4126, City: "Bhopal", State: "Madhya Pradesh", Country: "India"},
	"visakhapatnam":    {Latitude: 17.6868, Longitude: 83.2185, City: "Visakhapatnam", State: "Andhra Pradesh", Country: "India"},
	"pimpri-chinchwad": {Latitude: 18.6298, Longitude: 73.7997, City: "Pimpri-Chinchwad", State: "Maharashtra", Country: "India"},
	"patna":            {Latitude: 25.5941, Longitude: 85.1376, City: "Patna", State: "Bihar", Country: "India"},
	"vadodara":         {Latitude: 22.3072, Longitude: 73.1812, City: "Vadodara", State: "Gujarat", Country: "India"},
	"ghaziabad":        {Latitude: 28.6692, Longitude: 77.4538, City: "Ghaziabad", State: "Uttar Pradesh", Country: "India"},
	"ludhiana":         {Latitude: 30.9010, Longitude: 75.8573, City: "Ludhiana", State: "Punjab", Country: "India"},
	"agra":             {Latitude: 27.1767, Longitude: 78.0081, City: "Agra", State: "Uttar Pradesh", Country: "India"},
	"nashik":           {Latitude: 19.9975, Longitude: 73.7898, City: "Nashik", State: "Maharashtra", Country: "India"},
	"faridabad":        {Latitude: 28.4089, Longitude: 77.3178, City: "Faridabad", State: "Haryana", Country: "India"},
	"meerut":           {Latitude: 28.9845, Longitude: 77.7064, City: "Meerut", State: "Uttar Pradesh", Country: "India"},
	"rajkot":           {Latitude: 22.3039, Longitude: 70.8022, City: "Rajkot", State: "Gujarat", Country: "India"},
	"kalyan-dombivli":  {Latitude: 19.2403, Longitude: 73.1305, City: "Kalyan-Dombivli", State: "Maharashtra", Country: "India"},
	"vasai-virar":      {Latitude: 19.4912, Longitude: 72.8054, City: "Vasai-Virar", State: "Maharashtra", Country: "India"},
	"varanasi":         {Latitude: 25.3176, Longitude: 82.9739, City: "Varanasi", State: "Uttar Pradesh", Country: "India"},
	"srinagar":         {Latitude: 34.0837, Longitude: 74.7973, City: "Srinagar", State: "Jammu and Kashmir", Country: "India"},
	"aurangabad":       {Latitude: 19.8762, Longitude: 75.3433, City: "Aurangabad", State: "Maharashtra", Country: "India"},
	"dhanbad":          {Latitude: 23.7957, Longitude: 86.4304, City: "Dhanbad", State: "Jharkhand", Country: "India"},
	"amritsar":         {Latitude: 31.6340, Longitude: 74.8723, City: "Amritsar", State: "Punjab", Country: "India"},
	"navi mumbai":      {Latitude: 19.0330, Longitude: 73.0297, City: "Navi Mumbai", State: "Maharashtra", Country: "India"},
	"allahabad":        {Latitude: 25.4358, Longitude: 81.8463, City: "Allahabad", State: "Uttar Pradesh", Country: "India"},
	"prayagraj":        {Latitude: 25.4358, Longitude: 81.8463, City: "Prayagraj", State: "Uttar Pradesh", Country: "India"},
	"howrah":           {Latitude: 22.5958, Longitude: 88.2636, City: "Howrah", State: "West Bengal", Country: "India"},
	"ranchi":           {Latitude: 23.3441, Longitude: 85.3096, City: "Ranchi", State: "Jharkhand", Country: "India"},
	"gwalior":          {Latitude: 26.2183, Longitude: 78.1828, City: "Gwalior", State: "Madhya Pradesh", Country: "India"},
	"jabalpur":         {Latitude: 23.1815, Longitude: 79.9864, City: "Jabalpur", State: "Madhya Pradesh", Country: "India"},
	"coimbatore":       {Latitude: 11.0168, Longitude: 76.9558, City: "Coimbatore", State: "Tamil Nadu", Country: "India"},
	"vijayawada":       {Latitude: 16.5062, Longitude: 80.6480, City: "Vijayawada", State: "Andhra Pradesh", Country: "India"},
	"jodhpur":          {Latitude: 26.2389, Longitude: 73.0243, City: "Jodhpur", State: "Rajasthan", Country: "India"},
	"madurai":          {Latitude: 9.9252, Longitude: 78.1198, City: "Madurai", State: "Tamil Nadu", Country: "India"},
	"raipur":           {Latitude: 21.2514, Longitude: 81.6296, City: "Raipur", State: "Chhattisgarh", Country: "India"},
	"kota":             {Latitude: 25.2138, Longitude: 75.8648, City: "Kota", State: "Rajasthan", Country: "India"},
	"chandigarh":       {Latitude: 30.7333, Longitude: 76.7794, City: "Chandigarh", State: "Chandigarh", Country: "India"},
	"guwahati":         {Latitude: 26.1445, Longitude: 91.7362, City: "Guwahati", State: "Assam", Country: "India"},
	"solapur":          {Latitude: 17.6599, Longitude: 75.9064, City: "Solapur", State: "Maharashtra", Country: "India"},
	"hubli-dharwad":    {Latitude: 15.3647, Longitude: 75.1240, City: "Hubli-Dharwad", State: "Karnataka", Country: "India"},
	"bareilly":         {Latitude: 28.3670, Longitude: 79.4304, City: "Bareilly", State: "Uttar Pradesh", Country: "India"},
	"moradabad":        {Latitude: 28.8386, Longitude: 78.7733, City: "Moradabad", State: "Uttar Pradesh", Country: "India"},
	"mysore":           {Latitude: 12.2958, Longitude: 76.6394, City: "Mysore", State: "Karnataka", Country: "India"},
	"mysuru":           {Latitude: 12.2958, Longitude: 76.6394, City: "Mysuru", State: "Karnataka", Country: "India"},
	"tiruchirappalli":  {Latitude: 10.7905, Longitude: 78.7047, City: "Tiruchirappalli", State: "Tamil Nadu", Country: "India"},
	"salem":            {Latitude: 11.6643, Longitude: 78.1460, City: "Salem", State: "Tamil Nadu", Country: "India"},
	"tiruppur":         {Latitude: 11.1085, Longitude: 77.3411, City: "Tiruppur", State: "Tamil Nadu", Country: "India"},
}

// State centroids for broader regional grouping when no city matches
var indianStateCenters = map[string]GeocodedLocation{
	"maharashtra":       {Latitude: 19.7515, Longitude: 75.7139, State: "Maharashtra", Country: "India"},
	"uttar pradesh":     {Latitude: 26.8467, Longitude: 80.9462, State: "Uttar Pradesh", Country: "India"},
	"karnataka":         {Latitude: 15.3173, Longitude: 75.7139, State: "Karnataka", Country: "India"},
	"tamil nadu":        {Latitude: 11.1271, Longitude: 78.6569, State: "Tamil Nadu", Country: "India"},
	"gujarat":           {Latitude: 22.2587, Longitude: 71.1924, State: "Gujarat", Country: "India"},
	"west bengal":       {Latitude: 22.9868, Longitude: 87.8550, State: "West Bengal", Country: "India"},
	"rajasthan":         {Latitude: 27.0238, Longitude: 74.2179, State: "Rajasthan", Country: "India"},
	"madhya pradesh":    {Latitude: 22.9734, Longitude: 78.6569, State: "Madhya Pradesh", Country: "India"},
	"telangana":         {Latitude: 18.1124, Longitude: 79.0193, State: "Telangana", Country: "India"},
	"andhra pradesh":    {Latitude: 15.9129, Longitude: 79.7400, State: "Andhra Pradesh", Country: "India"},
	"kerala":            {Latitude: 10.8505, Longitude: 76.2711, State: "Kerala", Country: "India"},
	"punjab":            {Latitude: 31.1471, Longitude: 75.3412, State: "Punjab", Country: "India"},
	"haryana":           {Latitude: 29.0588, Longitude: 76.0856, State: "Haryana", Country: "India"},
	"bihar":             {Latitude: 25.0961, Longitude: 85.3131, State: "Bihar", Country: "India"},
	"odisha":            {Latitude: 20.9517, Longitude: 85.0985, State: "Odisha", Country: "India"},
	"jharkhand":         {Latitude: 23.6102, Longitude: 85.2799, State: "Jharkhand", Country: "India"},
	"assam":             {Latitude: 26.2006, Longitude: 92.9376, State: "Assam", Country: "India"},
	"chhattisgarh":      {Latitude: 21.2787, Longitude: 81.8661, State: "Chhattisgarh", Country: "India"},
	"himachal pradesh":  {Latitude: 31.1048, Longitude: 77.1734, State: "Himachal Pradesh", Country: "India"},
	"uttarakhand":       {Latitude: 30.0668, Longitude: 79.0193, State: "Uttarakhand", Country: "India"},
	"jammu and kashmir": {Latitude: 34.0837, Longitude: 74.7973, State: "Jammu and Kashmir", Country: "India"},
	"delhi":             {Latitude: 28.6139, Longitude: 77.2090, State: "Delhi", Country: "India"},
}
