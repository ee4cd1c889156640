// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"fmt"
	"strings"

	"tripai/backend/shared/types"
)

// langInstruction is the output-language directive appended to every prompt.
func langInstruction(lang types.Language) string {
	if lang == types.LangVietnamese {
		return "Response must be entirely in Vietnamese."
	}
	return "Response must be entirely in English."
}

// TravelModeConfig carries the per-mode wording interpolated into prompts.
type TravelModeConfig struct {
	TripType            string
	RouteTypes          string
	DurationLabel       string
	RouteConsiderations string
}

// ModeConfig returns the localized wording for a travel mode.
func ModeConfig(mode types.TravelMode, lang types.Language) TravelModeConfig {
	isVi := lang == types.LangVietnamese

	switch mode {
	case types.ModePlane:
		if isVi {
			return TravelModeConfig{
				TripType:            "chuyến bay",
				RouteTypes:          "3 lựa chọn chuyến bay khác nhau (ví dụ: bay thẳng, 1 điểm dừng, giá rẻ)",
				DurationLabel:       "Thời gian bay ước tính",
				RouteConsiderations: "Xem xét các hãng hàng không lớn, điểm dừng chân và thời gian bay thông thường.",
			}
		}
		return TravelModeConfig{
			TripType:            "flight trip",
			RouteTypes:          "3 distinct flight options (e.g., direct flight, 1 stopover, budget option)",
			DurationLabel:       "Estimated flight time",
			RouteConsiderations: "Consider major airlines, layover options, and typical flight durations.",
		}
	case types.ModeMotorbike:
		if isVi {
			return TravelModeConfig{
				TripType:            "chuyến đi xe máy",
				RouteTypes:          "3 tuyến đường xe máy khác nhau (ví dụ: nhanh nhất, phong cảnh đẹp, đường ven biển)",
				DurationLabel:       "Thời gian đi xe máy ước tính",
				RouteConsiderations: "Xem xét điều kiện đường sá địa phương và các tuyến đường du lịch phổ biến trong khu vực.",
			}
		}
		return TravelModeConfig{
			TripType:            "motorbike trip",
			RouteTypes:          "3 distinct motorbike routes (e.g., fastest, scenic, coastal)",
			DurationLabel:       "Estimated riding time",
			RouteConsiderations: "Consider local road conditions and popular travel routes in this region.",
		}
	default: // car
		if isVi {
			return TravelModeConfig{
				TripType:            "chuyến đi ô tô",
				RouteTypes:          "3 tuyến đường lái xe khác nhau (ví dụ: nhanh nhất, phong cảnh đẹp, đường ven biển)",
				DurationLabel:       "Thời gian lái xe ước tính",
				RouteConsiderations: "Xem xét điều kiện đường sá địa phương và các tuyến đường du lịch phổ biến trong khu vực.",
			}
		}
		return TravelModeConfig{
			TripType:            "road trip",
			RouteTypes:          "3 distinct driving routes (e.g., fastest, scenic, coastal)",
			DurationLabel:       "Estimated driving time",
			RouteConsiderations: "Consider local road conditions and popular travel routes in this region.",
		}
	}
}

// RouteOptionsParams are the inputs for a route-options prompt.
type RouteOptionsParams struct {
	Origin      string
	Destination string
	Lang        types.Language
	TravelMode  types.TravelMode
}

// BuildRouteOptionsPrompt produces the instruction block requesting three
// candidate routes. When the trip requires flying, the effective mode is
// forced to PLANE and an override note is appended.
func BuildRouteOptionsPrompt(p RouteOptionsParams) string {
	region := DetectRegion(p.Origin, p.Destination)

	regionContext := ""
	if region != RegionDefault {
		regionContext = " in " + region
	}

	mustFly := RequiresFlying(p.Origin, p.Destination)
	effectiveMode := p.TravelMode
	if mustFly {
		effectiveMode = types.ModePlane
	}
	mode := ModeConfig(effectiveMode, p.Lang)

	modeOverrideNote := ""
	if mustFly && p.TravelMode != types.ModePlane {
		if p.Lang == types.LangVietnamese {
			modeOverrideNote = "\nLƯU Ý: Đây là chuyến đi quốc tế/xuyên đại dương, chỉ có thể di chuyển bằng máy bay."
		} else {
			modeOverrideNote = "\nNOTE: This is an international/cross-ocean trip, only air travel is possible."
		}
	}

	return strings.TrimSpace(fmt.Sprintf(`
I am planning a %s from %s to %s%s.
Suggest %s.
%s%s
%s
Return the response in a structured JSON format.
`, mode.TripType, p.Origin, p.Destination, regionContext,
		mode.RouteTypes, mode.RouteConsiderations, modeOverrideNote,
		langInstruction(p.Lang)))
}

// ItineraryParams are the inputs for an itinerary prompt.
type ItineraryParams struct {
	Origin      string
	Destination string
	RouteName   string
	Lang        types.Language
	TravelMode  types.TravelMode
	Nights      int
}

const itemsPerDay = 4

// BuildItineraryPrompt produces the instruction block requesting a
// day-by-day itinerary for the chosen route. Total days = nights + 1.
func BuildItineraryPrompt(p ItineraryParams) string {
	nights := p.Nights
	if nights < 1 {
		nights = 1
	}
	totalDays := nights + 1
	totalItems := totalDays * itemsPerDay

	region := DetectRegion(p.Origin, p.Destination)
	regionContext := "the region"
	if region != RegionDefault {
		regionContext = region
	}

	mustFly := RequiresFlying(p.Origin, p.Destination)
	effectiveMode := p.TravelMode
	if mustFly {
		effectiveMode = types.ModePlane
	}

	var dayPlan string
	if effectiveMode == types.ModePlane {
		dayPlan = flightDayPlan(p.Origin, p.Destination, p.RouteName, p.Lang, nights)
	} else {
		dayPlan = groundDayPlan(p.Origin, p.Destination, p.RouteName, p.Lang, nights)
	}

	var common string
	if p.Lang == types.LangVietnamese {
		common = fmt.Sprintf(`
QUAN TRỌNG:
- Cung cấp tọa độ latitude và longitude gần đúng cho MỖI điểm dừng.
- MỖI item PHẢI có field "day" (số nguyên: 1, 2, 3...).
- Cung cấp khoảng %d mục (khoảng %d mục mỗi ngày).

Tập trung vào các địa điểm phổ biến, được đánh giá cao tại %s.
Bao gồm ẩm thực địa phương và điểm tham quan văn hóa đặc trưng của khu vực này.
Giả định khởi hành vào sáng sớm mỗi ngày.
`, totalItems, itemsPerDay, regionContext)
	} else {
		common = fmt.Sprintf(`
IMPORTANT:
- Provide approximate latitude and longitude coordinates for EACH stop.
- Each item MUST have a "day" field (integer: 1, 2, 3...).
- Provide about %d items (approximately %d items per day).

Focus on popular, highly-rated locations in %s.
Include local cuisine and cultural attractions specific to this area.
Assume an early morning departure each day.
`, totalItems, itemsPerDay, regionContext)
	}

	return strings.TrimSpace(dayPlan + "\n" + common + "\n" + langInstruction(p.Lang))
}

func flightDayPlan(origin, destination, routeName string, lang types.Language, nights int) string {
	totalDays := nights + 1

	if lang == types.LangVietnamese {
		middle := ""
		if nights >= 2 {
			middle = fmt.Sprintf(`NGÀY 2 đến NGÀY %d: Khám phá %s
- Các điểm tham quan và hoạt động chính
- Nhà hàng và quán ăn nổi tiếng địa phương
- Điểm check-in, chụp ảnh đẹp

`, totalDays-1, destination)
		}
		return fmt.Sprintf(`
Tạo lịch trình chi tiết %d NGÀY cho chuyến bay từ %s đến %s sử dụng: "%s".

NGÀY 1: Di chuyển + khám phá ban đầu
- Khởi hành từ sân bay %s
- Điểm dừng/quá cảnh nếu có
- Đến sân bay %s
- Khám phá khu vực xung quanh khách sạn

%sNGÀY %d: Ngày cuối
- Hoạt động buổi sáng trước khi ra sân bay
- Di chuyển ra sân bay %s
- Bay về %s

QUAN TRỌNG: Mỗi item PHẢI có field "day" là số ngày (1, 2, 3...).
`, totalDays, origin, destination, routeName, origin, destination, middle, totalDays, destination, origin)
	}

	middle := ""
	if nights >= 2 {
		middle = fmt.Sprintf(`DAY 2 to DAY %d: Explore %s
- Key attractions and activities
- Famous local restaurants and food spots
- Photo spots and sightseeing

`, totalDays-1, destination)
	}
	return fmt.Sprintf(`
Create a detailed %d-DAY itinerary for a flight trip from %s to %s using: "%s".

DAY 1: Travel + initial exploration
- Departure from %s airport
- Any layovers/stopovers if applicable
- Arrival at %s airport
- Explore area around the hotel

%sDAY %d: Final day
- Morning activities before airport
- Transfer to %s airport
- Flight back to %s

IMPORTANT: Each item MUST have a "day" field with the day number (1, 2, 3...).
`, totalDays, origin, destination, routeName, origin, destination, middle, totalDays, destination, origin)
}

func groundDayPlan(origin, destination, routeName string, lang types.Language, nights int) string {
	totalDays := nights + 1

	if lang == types.LangVietnamese {
		middle := ""
		if nights >= 2 {
			middle = fmt.Sprintf(`NGÀY 2 đến NGÀY %d: Khám phá %s
- Các điểm tham quan chính
- Nhà hàng và quán ăn nổi tiếng địa phương
- Điểm check-in, chụp ảnh đẹp
- Hoạt động theo phong cách du lịch

`, totalDays-1, destination)
		}
		return fmt.Sprintf(`
Tạo lịch trình chi tiết %d NGÀY cho chuyến đi từ %s đến %s theo tuyến đường: "%s".

NGÀY 1: Di chuyển từ %s
- Khởi hành từ %s
- Các điểm dừng trên đường (ẩm thực, nghỉ ngơi, tham quan)
- Đến %s (hoặc điểm dừng chân nếu quãng đường xa)

%sNGÀY %d: Ngày cuối
- Hoạt động buổi sáng
- Di chuyển về %s
- Các điểm dừng trên đường về

QUAN TRỌNG: Mỗi item PHẢI có field "day" là số ngày (1, 2, 3...).
Lịch trình nên bao gồm tham quan, ẩm thực, nghỉ ngơi cho mỗi ngày.
`, totalDays, origin, destination, routeName, origin, origin, destination, middle, totalDays, origin)
	}

	middle := ""
	if nights >= 2 {
		middle = fmt.Sprintf(`DAY 2 to DAY %d: Explore %s
- Key attractions
- Famous local restaurants and food spots
- Photo spots and sightseeing
- Activities based on trip style

`, totalDays-1, destination)
	}
	return fmt.Sprintf(`
Create a detailed %d-DAY itinerary for a trip from %s to %s taking the route: "%s".

DAY 1: Travel from %s
- Departure from %s
- Stops along the way (food, rest, sightseeing)
- Arrive at %s (or midway stop if long distance)

%sDAY %d: Final day
- Morning activities
- Travel back to %s
- Stops along the return journey

IMPORTANT: Each item MUST have a "day" field with the day number (1, 2, 3...).
The itinerary should include sightseeing, food, and rest stops for each day.
`, totalDays, origin, destination, routeName, origin, origin, destination, middle, totalDays, origin)
}

// HotelParams are the inputs for a hotel-recommendations prompt.
type HotelParams struct {
	Destination string
	Nights      int
	BudgetMin   float64 // VND per night
	BudgetMax   float64 // VND per night
	Lang        types.Language
	TripStyles  []types.TripStyle
}

// formatVND renders a VND amount compactly (1.5tr / 500k).
func formatVND(amount float64) string {
	if amount >= 1000000 {
		return fmt.Sprintf("%.1ftr VNĐ", amount/1000000)
	}
	return fmt.Sprintf("%.0fk VNĐ", amount/1000)
}

// BuildHotelPrompt produces the instruction block requesting three hotels
// at different price points within the given budget.
func BuildHotelPrompt(p HotelParams) string {
	nights := p.Nights
	if nights < 1 {
		nights = 1
	}

	styleContext := ""
	if len(p.TripStyles) > 0 {
		names := make([]string, len(p.TripStyles))
		for i, s := range p.TripStyles {
			names[i] = string(s)
		}
		if p.Lang == types.LangVietnamese {
			styleContext = "Phong cách chuyến đi: " + strings.Join(names, ", ") + "."
		} else {
			styleContext = "Trip style preferences: " + strings.Join(names, ", ") + "."
		}
	}

	if p.Lang == types.LangVietnamese {
		return strings.TrimSpace(fmt.Sprintf(`
Gợi ý 3 khách sạn tại %s cho chuyến đi %d đêm.

Ngân sách: từ %s đến %s mỗi đêm.
%s

Yêu cầu:
- Gợi ý 3 khách sạn với các mức giá khác nhau trong khoảng ngân sách (tiết kiệm, trung bình, cao cấp)
- Mỗi khách sạn cần có: tên, rating, giá mỗi đêm (VNĐ), mô tả ngắn, tiện nghi chính, vị trí
- Giá phải nằm trong khoảng ngân sách đã cho
- Tổng giá = giá mỗi đêm × %d đêm
- Tập trung vào khách sạn được đánh giá cao, phổ biến với du khách
- Cung cấp tọa độ gần đúng cho mỗi khách sạn

%s
`, p.Destination, nights, formatVND(p.BudgetMin), formatVND(p.BudgetMax), styleContext, nights, langInstruction(p.Lang)))
	}

	return strings.TrimSpace(fmt.Sprintf(`
Recommend 3 hotels in %s for a %d-night stay.

Budget: from %s to %s per night.
%s

Requirements:
- Suggest 3 hotels at different price points within the budget range (budget, mid-range, premium)
- Each hotel needs: name, rating, price per night (VNĐ), short description, main amenities, location
- Prices must be within the given budget range
- Total price = price per night × %d nights
- Focus on highly-rated hotels popular with travelers
- Provide approximate coordinates for each hotel

%s
`, p.Destination, nights, formatVND(p.BudgetMin), formatVND(p.BudgetMax), styleContext, nights, langInstruction(p.Lang)))
}

// FlightParams are the inputs for a flight-options prompt.
type FlightParams struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Lang          types.Language
}

// BuildFlightPrompt produces the instruction block requesting three flight
// options for trips the flying heuristic marked as air-only.
func BuildFlightPrompt(p FlightParams) string {
	returnContext := ""
	if p.ReturnDate != "" {
		if p.Lang == types.LangVietnamese {
			returnContext = fmt.Sprintf("Ngày về dự kiến: %s.", p.ReturnDate)
		} else {
			returnContext = fmt.Sprintf("Planned return date: %s.", p.ReturnDate)
		}
	}

	if p.Lang == types.LangVietnamese {
		return strings.TrimSpace(fmt.Sprintf(`
Gợi ý 3 chuyến bay từ %s đến %s khởi hành ngày %s.
%s

Yêu cầu:
- Gợi ý 3 lựa chọn khác nhau: bay thẳng, 1 điểm dừng và giá rẻ
- Mỗi chuyến bay cần có: hãng hàng không, số hiệu chuyến bay, giờ khởi hành, giờ đến, thời gian bay, số điểm dừng, hạng ghế
- Giá vé người lớn và trẻ em tính bằng VNĐ
- Ưu tiên các hãng hàng không phổ biến trên chặng bay này

%s
`, p.Origin, p.Destination, p.DepartureDate, returnContext, langInstruction(p.Lang)))
	}

	return strings.TrimSpace(fmt.Sprintf(`
Suggest 3 flights from %s to %s departing on %s.
%s

Requirements:
- Offer 3 distinct options: direct, 1 stopover, and a budget choice
- Each flight needs: airline, flight number, departure time, arrival time, flight duration, number of stops, cabin class
- Ticket prices per adult and per child in VNĐ
- Prefer airlines commonly operating this route

%s
`, p.Origin, p.Destination, p.DepartureDate, returnContext, langInstruction(p.Lang)))
}

// FallbackRoute holds the localized wording of the synthetic route returned
// when the AI call fails.
type FallbackRoute struct {
	Name        string
	Description string
}

// FallbackRouteMessage returns the localized "could not generate" route text.
func FallbackRouteMessage(lang types.Language) FallbackRoute {
	if lang == types.LangVietnamese {
		return FallbackRoute{
			Name:        "Tuyến đường đề xuất",
			Description: "AI chưa thể tạo tuyến đường lúc này.",
		}
	}
	return FallbackRoute{
		Name:        "Recommended Route",
		Description: "AI could not generate routes at this moment.",
	}
}
