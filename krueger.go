package geodesy

// seriesCoefficients holds the constants of Krueger's conformal series
// for a given ellipsoid: the rectifying radius A and the eight-term
// alpha (ellipsoidal to conformal, forward) and beta (conformal to
// ellipsoidal, inverse) coefficient sets. All are pure functions of
// Helmert's n, evaluated once per Projection and immutable afterwards.
type seriesCoefficients struct {
	rectifyingRadius float64
	alpha            [8]float64
	beta             [8]float64
}

// newSeriesCoefficients evaluates the coefficient polynomials in
// ascending powers of n through n^8, in Horner form to avoid
// accumulating rounding error across the large rational constants.
func newSeriesCoefficients(e Ellipsoid) seriesCoefficients {
	n := e.ThirdFlattening
	n2 := n * n
	n3 := n2 * n
	n4 := n3 * n
	n5 := n4 * n
	n6 := n5 * n
	n7 := n6 * n
	n8 := n7 * n

	var sc seriesCoefficients

	// A = a/(1+n) * (1 + n^2/4 + n^4/64 + n^6/256 + 25n^8/16384 + 49n^10/65536)
	sc.rectifyingRadius = e.SemiMajorAxis / (1 + n) *
		(1 + n2*(1.0/4+n2*(1.0/64+n2*(1.0/256+n2*(25.0/16384+n2*(49.0/65536))))))

	sc.alpha[0] = n * (1.0/2 + n*(-2.0/3+n*(5.0/16+n*(41.0/180+
		n*(-127.0/288+n*(7891.0/37800+n*(72161.0/387072+n*(-18975107.0/50803200))))))))
	sc.alpha[1] = n2 * (13.0/48 + n*(-3.0/5+n*(557.0/1440+n*(281.0/630+
		n*(-1983433.0/1935360+n*(13769.0/28800+n*(148003883.0/174182400)))))))
	sc.alpha[2] = n3 * (61.0/240 + n*(-103.0/140+n*(15061.0/26880+
		n*(167603.0/181440+n*(-67102379.0/29030400+n*(79682431.0/79833600))))))
	sc.alpha[3] = n4 * (49561.0/161280 + n*(-179.0/168+n*(6601661.0/7257600+
		n*(97445.0/49896+n*(-40176129013.0/7664025600)))))
	sc.alpha[4] = n5 * (34729.0/80640 + n*(-3418889.0/1995840+
		n*(14644087.0/9123840+n*(2605413599.0/622702080))))
	sc.alpha[5] = n6 * (212378941.0/319334400 + n*(-30705481.0/10378368+
		n*(175214326799.0/58118860800)))
	sc.alpha[6] = n7 * (1522256789.0/1383782400 + n*(-16759934899.0/3113510400))
	sc.alpha[7] = n8 * (1424729850961.0 / 743921418240)

	sc.beta[0] = n * (1.0/2 + n*(-2.0/3+n*(37.0/96+n*(-1.0/360+
		n*(-81.0/512+n*(96199.0/604800+n*(-5406467.0/38707200+n*(7944359.0/67737600))))))))
	sc.beta[1] = n2 * (1.0/48 + n*(1.0/15+n*(-437.0/1440+n*(46.0/105+
		n*(-1118711.0/3870720+n*(51841.0/1209600+n*(24749483.0/348364800)))))))
	sc.beta[2] = n3 * (17.0/480 + n*(-37.0/840+n*(-209.0/4480+
		n*(5569.0/90720+n*(9261899.0/58060800+n*(-6457463.0/17740800))))))
	sc.beta[3] = n4 * (4397.0/161280 + n*(-11.0/504+n*(-830251.0/7257600+
		n*(466511.0/2494800+n*(324154477.0/7664025600)))))
	sc.beta[4] = n5 * (4583.0/161280 + n*(-108847.0/3991680+
		n*(-8005831.0/63866880+n*(22894433.0/124540416))))
	sc.beta[5] = n6 * (20648693.0/638668800 + n*(-16363163.0/518918400+
		n*(-2204645983.0/12915302400)))
	sc.beta[6] = n7 * (219941297.0/5535129600 + n*(-497323811.0/12454041600))
	sc.beta[7] = n8 * (191773887257.0 / 3719607091200)

	return sc
}
