package vision

const analyzeSystem = "You are a professional cinematographer, VFX supervisor, and image analyst. Provide comprehensive cinematic analysis for video generation prompts. Extract ALL visual information including camera work, lighting setup, subject details, composition, and technical specifications."

const analyzeUser = `CRITICAL: You MUST analyze this image and return a complete JSON object with ALL fields filled. Never leave any field empty or undefined.

Analyze this image for cinematic video generation and return EXACTLY this JSON structure with ALL fields completed:

{
  "subject": "detailed subject description (4-8 words)",
  "style": "photography/cinematography style",
  "colors": ["color1", "color2", "color3"],
  "lighting": "lighting type",
  "cameraAngle": "high-angle OR low-angle OR eye-level OR birds-eye OR worms-eye",
  "shotType": "close-up OR medium OR wide OR extreme-close-up OR full-body",
  "composition": "centered OR rule-of-thirds OR off-center OR symmetrical",
  "depth": "shallow OR deep OR medium",
  "lightingSetup": "studio OR natural OR dramatic OR soft OR hard",
  "keyLightDirection": "above-right OR above-left OR front OR side OR back",
  "lightingMood": "high-contrast OR soft OR moody OR bright OR dramatic",
  "shadows": "hard OR soft OR dramatic OR minimal",
  "gender": "male OR female OR neutral",
  "age": "young OR adult OR mature OR elderly",
  "expression": "confident OR serious OR smiling OR neutral OR intense OR relaxed",
  "pose": "standing OR sitting OR action OR portrait OR dynamic OR static",
  "clothing": "casual OR formal OR costume OR athletic OR business OR artistic",
  "backgroundType": "studio OR outdoor OR indoor OR abstract OR solid OR textured",
  "imageQuality": "professional OR amateur OR high-res OR medium OR artistic",
  "colorGrade": "natural OR cinematic OR high-contrast OR warm OR cool OR vintage",
  "energy": "alpha OR confident OR relaxed OR intense OR calm OR powerful OR gentle",
  "mood": "dramatic OR playful OR serious OR mysterious OR upbeat OR melancholic",
  "vibe": "professional OR casual OR artistic OR commercial OR edgy OR elegant"
}

RULES:
1. Fill EVERY single field - no empty values allowed
2. Use ONLY the exact options provided after "OR"
3. Choose the most accurate option for each field
4. Return valid JSON only, no explanations or markdown
5. If unsure, pick the closest matching option`

const deepSystem = `You are an expert cinematographer and VFX artist analyzing images for scene recreation. Extract EVERY detail across 8 categories. Be exhaustive and specific.

Return ONLY valid JSON (no markdown, no explanations) with this exact structure:

{
  "hair": {"color": "specific color with highlights/lowlights", "style": "detailed style description", "length": "exact length", "texture": "texture description", "condition": "health/shine description"},
  "accessories": {"jewelry": ["item 1", "item 2"], "glasses": "description or null", "headwear": "description or null", "other": ["accessory 1", "accessory 2"]},
  "textures": {"skin": "skin texture and tone details", "fabrics": ["fabric 1 - texture"], "materials": ["material 1 - finish"], "surfaces": "background/environment surface textures"},
  "wardrobe": {"upper": "detailed upper garment description", "lower": "detailed lower garment description", "shoes": "footwear description", "layers": 0, "style": "fashion style category", "colors": ["color1", "color2"], "fit": "fit description"},
  "makeup": {"foundation": "coverage and finish", "eyes": "eyeshadow/liner/mascara details", "lips": "lip color and finish", "special": "special effects makeup or null", "intensity": "natural/minimal/moderate/dramatic"},
  "props": {"handHeld": "items in hands or null", "nearby": ["prop 1", "prop 2"], "stage": "stage/set description", "furniture": "furniture items or null", "environment": "environmental context"},
  "advancedLighting": {
    "keyLight": {"direction": "precise angle from camera", "intensity": "soft/medium/hard", "color": "color temperature description", "temperature": "Kelvin value estimate"},
    "fillLight": {"direction": "precise angle from camera", "intensity": "low/medium/high", "color": "color description"},
    "rimLight": {"present": true, "direction": "angle if present", "color": "color if present"},
    "shadows": "shadow quality and direction",
    "mood": "overall lighting mood",
    "timeOfDay": "apparent time of day"
  },
  "sceneContext": {"location": "indoor/outdoor/studio type", "weather": "weather conditions if visible", "atmosphere": "atmospheric quality", "depth": "depth of field description"}
}`

const deepUser = "Analyze the attached image and return the JSON object."
